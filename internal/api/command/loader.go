package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"EchoOS/internal/entity"
)

// phraseTableFile is the on-disk shape of config/commands.json. Arrays, not
// maps: intent declaration order is a documented tie-break and JSON objects
// do not preserve it.
type phraseTableFile struct {
	Categories []struct {
		Category string `json:"category" validate:"required,oneof=system app file web info volume accessibility control"`
		Intents  []struct {
			Intent  string   `json:"intent" validate:"required"`
			Phrases []string `json:"phrases" validate:"required,min=1,dive,required"`
		} `json:"intents" validate:"required,min=1,dive"`
	} `json:"categories" validate:"required,min=1,dive"`
}

// LoadPhraseTable reads and eagerly validates the phrase table. Malformed
// configuration fails at startup, not deep in the parse path.
func LoadPhraseTable(path string, validate *validator.Validate) (entity.PhraseTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.PhraseTable{}, fmt.Errorf("read phrase table: %w", err)
	}

	var file phraseTableFile
	if err := jsoniter.Unmarshal(raw, &file); err != nil {
		return entity.PhraseTable{}, fmt.Errorf("decode phrase table: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return entity.PhraseTable{}, fmt.Errorf("invalid phrase table: %w", err)
	}

	seen := map[string]bool{}
	var table entity.PhraseTable
	for _, cat := range file.Categories {
		category := entity.PhraseCategory{Name: entity.CommandCategory(cat.Category)}
		for _, intent := range cat.Intents {
			key := cat.Category + "." + intent.Intent
			if seen[key] {
				return entity.PhraseTable{}, fmt.Errorf("duplicate intent %q in phrase table", key)
			}
			seen[key] = true

			phrases := make([]string, 0, len(intent.Phrases))
			for _, p := range intent.Phrases {
				phrases = append(phrases, strings.ToLower(strings.TrimSpace(p)))
			}
			category.Intents = append(category.Intents, entity.PhraseIntent{
				Name:    intent.Intent,
				Phrases: phrases,
			})
		}
		table.Categories = append(table.Categories, category)
	}

	return table, nil
}

// LoadAppRegistry reads the discovery collaborator's output. Names and
// aliases are lowercased so lookups match normalized transcripts.
func LoadAppRegistry(path string, validate *validator.Validate) (entity.AppRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No discovery run yet; an empty registry is valid.
			return entity.AppRegistry{}, nil
		}
		return entity.AppRegistry{}, fmt.Errorf("read app registry: %w", err)
	}

	var registry entity.AppRegistry
	if err := jsoniter.Unmarshal(raw, &registry); err != nil {
		return entity.AppRegistry{}, fmt.Errorf("decode app registry: %w", err)
	}
	if err := validate.Struct(registry); err != nil {
		return entity.AppRegistry{}, fmt.Errorf("invalid app registry: %w", err)
	}

	for i := range registry.Apps {
		registry.Apps[i].Name = strings.ToLower(strings.TrimSpace(registry.Apps[i].Name))
		for j := range registry.Apps[i].Aliases {
			registry.Apps[i].Aliases[j] = strings.ToLower(strings.TrimSpace(registry.Apps[i].Aliases[j]))
		}
	}

	return registry, nil
}
