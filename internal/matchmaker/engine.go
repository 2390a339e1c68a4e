package matchmaker

import (
	"github.com/yanun0323/logs"

	"main/internal/schema"
)

// BuildMatchmakers groups the registry's symbols by instrument type and
// creates one matchmaker per type that has at least one symbol.
func BuildMatchmakers(reg *schema.Registry) map[schema.InstrumentType]*InstrumentMatchmaker {
	matchmakers := make(map[schema.InstrumentType]*InstrumentMatchmaker)
	for _, t := range schema.InstrumentTypes() {
		symbols := reg.SymbolsByType(t)
		if len(symbols) == 0 {
			continue
		}
		m := NewInstrumentMatchmaker(t)
		for _, sym := range symbols {
			if !m.AddSymbol(sym) {
				logs.Warnf("skipping symbol id %d: not addable to %s matchmaker", sym.ID, t)
				continue
			}
			logs.Infof("registered symbol %s (id %d) under %s", sym.Name, sym.ID, t)
		}
		matchmakers[t] = m
	}
	return matchmakers
}
