package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/equipment"
	"github.com/osse101/TaskArena_Go/internal/repository"
	"github.com/osse101/TaskArena_Go/internal/validation"
)

// Sentinel errors for item loader
var (
	ErrDuplicateKey = errors.New("duplicate item key")

	ErrInvalidConfig = errors.New("invalid configuration")
)

// Schema paths
const (
	ItemsSchemaPath = "configs/schemas/items.schema.json"
)

// Config represents the JSON configuration for items
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def represents a single item definition in the JSON.
// Key is the free-form catalog id; ID may pin an explicit UUID.
type Def struct {
	Key      string          `json:"key"`
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Type     domain.ItemType `json:"type"`
	Rarity   domain.Rarity   `json:"rarity"`
	Price    int             `json:"price"`
	Currency domain.Currency `json:"currency"`
	Effects  []domain.Effect `json:"effects"`
}

// ToDomain converts the definition into a catalog item with a normalized id
func (d Def) ToDomain() domain.Item {
	id := d.ID
	if id == "" {
		id = d.Key
	}
	effects := make([]domain.Effect, len(d.Effects))
	copy(effects, d.Effects)
	return domain.Item{
		ID:       equipment.NormalizeID(id),
		Key:      d.Key,
		Name:     d.Name,
		Type:     d.Type,
		Rarity:   d.Rarity,
		Price:    d.Price,
		Currency: d.Currency,
		Effects:  effects,
	}
}

// DomainItems converts every definition in the config
func (c *Config) DomainItems() []domain.Item {
	out := make([]domain.Item, 0, len(c.Items))
	for _, d := range c.Items {
		out = append(out, d.ToDomain())
	}
	return out
}

// Loader handles loading and validating item configuration
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
	SyncToDatabase(ctx context.Context, config *Config, repo repository.Item, configPath string) (*SyncResult, error)
}

// SyncResult contains the result of syncing items to the database
type SyncResult struct {
	ItemsInserted int
	ItemsUpdated  int
	ItemsSkipped  int
}

type itemLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &itemLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// LoadCatalog loads, validates and indexes an item file in one step
func LoadCatalog(path string) (*equipment.StaticCatalog, *Config, error) {
	l := NewLoader()
	config, err := l.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := l.Validate(config); err != nil {
		return nil, nil, err
	}
	return equipment.NewStaticCatalog(config.DomainItems()), config, nil
}

// Load reads and parses an items JSON file
func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	// Validate against schema first
	if err := l.schemaValidator.ValidateBytes(data, ItemsSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}

	return &config, nil
}

// Validate checks the item configuration for errors
func (l *itemLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgConfigNil)
	}

	if len(config.Items) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoItemsDefined)
	}

	// Keys and explicit ids share one namespace once normalized
	seen := make(map[string]string, len(config.Items))
	table := equipment.DefaultSlotTable()

	for i := range config.Items {
		if err := validateItemDef(i, &config.Items[i], seen, table); err != nil {
			return err
		}
	}

	return nil
}

func validateItemDef(index int, item *Def, seen map[string]string, table equipment.SlotTable) error {
	if item.Key == "" {
		return fmt.Errorf(ErrFmtItemAtIndexEmpty, ErrInvalidConfig, index)
	}

	id := item.ToDomain().ID
	if prev, ok := seen[id]; ok {
		return fmt.Errorf("%w: '%s' collides with '%s'", ErrDuplicateKey, item.Key, prev)
	}
	seen[id] = item.Key

	if item.Name == "" {
		return fmt.Errorf(ErrFmtItemHasEmptyName, ErrInvalidConfig, item.Key)
	}
	if _, ok := table.SlotFor(item.Type); !ok {
		return fmt.Errorf(ErrFmtItemUnknownType, ErrInvalidConfig, item.Key, item.Type)
	}
	if item.Rarity.Rank() == 0 {
		return fmt.Errorf(ErrFmtItemUnknownRarity, ErrInvalidConfig, item.Key, item.Rarity)
	}
	if item.Currency != domain.CurrencyGold && item.Currency != domain.CurrencyGems {
		return fmt.Errorf(ErrFmtItemUnknownCurrency, ErrInvalidConfig, item.Key, item.Currency)
	}
	if item.Price < 0 {
		return fmt.Errorf(ErrFmtItemNegativePrice, ErrInvalidConfig, item.Key)
	}
	return nil
}
