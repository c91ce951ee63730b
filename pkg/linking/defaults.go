package linking

import (
	"sync"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/linker/dbpedia"
	"github.com/gkf-project/gkf/backend/pkg/linker/esco"
	"github.com/gkf-project/gkf/backend/pkg/linker/linkeduniversities"
	"github.com/gkf-project/gkf/backend/pkg/linker/openuniversity"
	"github.com/gkf-project/gkf/backend/pkg/linker/wikidata"
)

var (
	registryMu      sync.Mutex
	defaultRegistry *linker.Registry
)

// GetRegistry returns the process-wide registry, creating it with the five
// built-in sources class-registered on first call. Instances stay lazy: a
// source is constructed only when first resolved through the registry.
func GetRegistry() *linker.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = linker.NewRegistry()
		registerBuiltins(defaultRegistry)
	}
	return defaultRegistry
}

// ResetRegistry drops the process-wide registry. The next GetRegistry call
// rebuilds it with the built-ins. Intended for tests.
func ResetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	defaultRegistry = nil
}

func registerBuiltins(r *linker.Registry) {
	// Keys and factories are compile-time constants, registration cannot
	// fail here.
	_ = r.RegisterClass(wikidata.Source, wikidata.Factory)
	_ = r.RegisterClass(dbpedia.Source, dbpedia.Factory)
	_ = r.RegisterClass(esco.Source, esco.Factory)
	_ = r.RegisterClass(openuniversity.Source, openuniversity.Factory)
	_ = r.RegisterClass(linkeduniversities.Source, linkeduniversities.Factory)
}

// BuiltinSources lists the source keys registered by default, in a stable
// order.
func BuiltinSources() []string {
	return []string{
		wikidata.Source,
		dbpedia.Source,
		esco.Source,
		openuniversity.Source,
		linkeduniversities.Source,
	}
}
