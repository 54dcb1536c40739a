package aquinas

// Module groups the injectables of one feature so they can be registered
// together, or turned into a Dock of their own and merged later.
type Module struct {
	name       string
	items      []Bindable
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Provide(items ...Bindable) *Module {
	m.items = append(m.items, items...)
	return m
}

// Include registers submodule before m's own items whenever m is applied.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(d *Dock) error {
	for _, sub := range m.submodules {
		if sub == nil {
			return errInvalidArgument("expected a Module", sub)
		}
		if err := sub.apply(d); err != nil {
			return err
		}
	}

	return d.Register(m.items...)
}

// Dock returns a new Dock holding only m's bindings.
func (m *Module) Dock(opts ...Option) (*Dock, error) {
	d := New(opts...)
	if err := d.Apply(m); err != nil {
		return nil, err
	}
	return d, nil
}

// Apply registers the items of every module, submodules first.
func (d *Dock) Apply(modules ...*Module) error {
	for _, m := range modules {
		if m == nil {
			return errInvalidArgument("expected a Module", m)
		}
		if err := m.apply(d); err != nil {
			return errModuleApplyFailed(m.name, err)
		}
		d.config.logger.Debug("applied module", "module", m.name)
	}
	return nil
}
