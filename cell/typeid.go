package cell

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// TypeID identifies a Go type. Unlike reflect.Type it can be serialized: it is the hash of
// the fully qualified type name, so it stays the same across runs as long as the type keeps
// its name and package path. Renaming or moving a type orphans its persisted values.
type TypeID uint64

var (
	typeIDs   sync.Map // reflect.Type -> TypeID
	typeNames sync.Map // TypeID -> string
)

// TypeOf returns the TypeID of T.
func TypeOf[T any]() TypeID {
	return typeIDOf(reflect.TypeOf((*T)(nil)).Elem())
}

func typeIDOf(t reflect.Type) TypeID {
	if v, ok := typeIDs.Load(t); ok {
		return v.(TypeID)
	}
	name := qualifiedName(t)
	tid := TypeID(xxhash.Sum64String(name))
	typeIDs.Store(t, tid)
	typeNames.Store(tid, name)
	return tid
}

func qualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Name returns the type name if the type was seen by this process, "" otherwise.
// Types only known from a restored snapshot have no name until first accessed.
func (t TypeID) Name() string {
	if v, ok := typeNames.Load(t); ok {
		return v.(string)
	}
	return ""
}

func (t TypeID) String() string {
	if name := t.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("TypeID(%016X)", uint64(t))
}
