package ident

import (
	"sync"

	"github.com/google/uuid"
)

// Namespace is the UUIDv5 namespace every reference identity is derived in.
var Namespace = uuid.MustParse("6f1c1f4e-2a8e-5b7d-9c0a-61717569e4a5")

var table sync.Map

// For returns the canonical identity for name. The same name always yields
// the same identity, in every package and every process.
func For(name string) uuid.UUID {
	if cached, ok := table.Load(name); ok {
		return cached.(uuid.UUID)
	}

	id := uuid.NewSHA1(Namespace, []byte(name))
	actual, _ := table.LoadOrStore(name, id)
	return actual.(uuid.UUID)
}

// Join builds the name of a reference namespaced under base.
func Join(base, name string) string {
	return base + ":" + name
}
