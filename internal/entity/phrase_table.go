package entity

// PhraseTable maps category -> intent -> trigger phrases. Loaded once at
// startup and read-only afterwards. Intent declaration order is preserved
// because tie-breaking is order-dependent.
type PhraseTable struct {
	Categories []PhraseCategory
}

type PhraseCategory struct {
	Name    CommandCategory
	Intents []PhraseIntent
}

type PhraseIntent struct {
	Name    string
	Phrases []string
}

// AppRegistryEntry is one record of the discovered application registry,
// produced by the external discovery collaborator.
type AppRegistryEntry struct {
	Name    string   `json:"name" validate:"required"`
	Path    string   `json:"path" validate:"required"`
	Aliases []string `json:"aliases"`
}

type AppRegistry struct {
	Apps []AppRegistryEntry `json:"apps" validate:"dive"`
}

// Resolve finds an app by exact name or alias match, case-insensitive
// matching is done by the loader which lowercases keys up front.
func (r AppRegistry) Resolve(name string) (AppRegistryEntry, bool) {
	for _, app := range r.Apps {
		if app.Name == name {
			return app, true
		}
		for _, alias := range app.Aliases {
			if alias == name {
				return app, true
			}
		}
	}
	return AppRegistryEntry{}, false
}
