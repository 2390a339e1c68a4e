package schema

import (
	"fmt"
	"sort"
)

// Registry stores the symbol universe in a compact form. It is built once
// during bootstrap and read-only afterwards.
type Registry struct {
	symbols      map[uint32]*InstrumentSymbol
	symbolByName map[string]uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		symbols:      make(map[uint32]*InstrumentSymbol),
		symbolByName: make(map[string]uint32),
	}
}

// AddSymbol registers a new symbol.
func (r *Registry) AddSymbol(sym InstrumentSymbol) error {
	if sym.Name == "" {
		return fmt.Errorf("symbol name is empty")
	}
	if !ValidInstrumentType(int32(sym.Type)) {
		return fmt.Errorf("unsupported instrument type: %d", sym.Type)
	}
	if _, ok := r.symbols[sym.ID]; ok {
		return fmt.Errorf("symbol id already exists: %d", sym.ID)
	}
	if _, ok := r.symbolByName[sym.Name]; ok {
		return fmt.Errorf("symbol name already exists: %s", sym.Name)
	}
	stored := sym
	r.symbols[sym.ID] = &stored
	r.symbolByName[sym.Name] = sym.ID
	return nil
}

// Symbol returns the symbol by id.
func (r *Registry) Symbol(id uint32) (*InstrumentSymbol, bool) {
	sym, ok := r.symbols[id]
	return sym, ok
}

// SymbolByName returns the symbol by name.
func (r *Registry) SymbolByName(name string) (*InstrumentSymbol, bool) {
	id, ok := r.symbolByName[name]
	if !ok {
		return nil, false
	}
	return r.symbols[id], true
}

// SymbolCount returns the number of registered symbols.
func (r *Registry) SymbolCount() int {
	return len(r.symbols)
}

// SymbolsByType returns the symbols of one instrument type, ordered by id.
func (r *Registry) SymbolsByType(t InstrumentType) []*InstrumentSymbol {
	var out []*InstrumentSymbol
	for _, sym := range r.symbols {
		if sym.Type == t {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
