package settings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// schemaKey carries the schema version through migrations. It is never
// persisted.
const schemaKey = "_schema"

// Version is a settings schema version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the version as a string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if v < other, 0 if equal and 1 if v > other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Migration transforms decoded settings from one schema version to the next.
type Migration struct {
	FromVersion Version
	ToVersion   Version
	Description string
	Migrate     func(data map[string]any) (map[string]any, error)
}

// Migrator applies registered migrations in version order.
type Migrator struct {
	migrations []Migration
	current    Version
}

// NewMigrator creates a Migrator targeting current.
func NewMigrator(current Version) *Migrator {
	return &Migrator{current: current}
}

// CurrentVersion returns the target schema version.
func (m *Migrator) CurrentVersion() Version {
	return m.current
}

// Register adds a migration.
func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].FromVersion.Compare(m.migrations[j].FromVersion) < 0
	})
}

// NeedsMigration reports whether data is older than the target version.
func (m *Migrator) NeedsMigration(data map[string]any) bool {
	return extractVersion(data).Compare(m.current) < 0
}

// Migrate applies every migration between the data's version and the target.
// The returned map has its schema version set to the target.
func (m *Migrator) Migrate(data map[string]any) (map[string]any, error) {
	from := extractVersion(data)

	for _, migration := range m.migrations {
		if migration.FromVersion.Compare(from) < 0 {
			continue
		}
		if migration.ToVersion.Compare(m.current) > 0 {
			continue
		}

		migrated, err := migration.Migrate(data)
		if err != nil {
			return data, fmt.Errorf("settings migration %s -> %s failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}
		data = migrated
		from = migration.ToVersion
	}

	data[schemaKey] = m.current.String()
	return data, nil
}

func extractVersion(data map[string]any) Version {
	s, ok := data[schemaKey].(string)
	if !ok {
		return Version{}
	}
	var v Version
	_, _ = fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	return v
}

// LegacyVersion is stamped into the version key of imported JSON settings
// that carry none.
const LegacyVersion = "legacy-json"

// LegacyMigrator upgrades the JSON settings file written by earlier releases.
func LegacyMigrator() *Migrator {
	m := NewMigrator(Version{Major: 1})
	m.Register(Migration{
		FromVersion: Version{},
		ToVersion:   Version{Major: 1},
		Description: "replace dark_mode flag with theme name",
		Migrate: func(data map[string]any) (map[string]any, error) {
			if _, ok := data[KeyVersion].(string); !ok {
				data[KeyVersion] = LegacyVersion
			}

			dark, found := data["dark_mode"]
			if !found {
				return data, nil
			}
			delete(data, "dark_mode")

			on, ok := dark.(bool)
			if !ok {
				return nil, fmt.Errorf("dark_mode: expected bool, got %T", dark)
			}
			if on {
				data[KeyTheme] = ThemeDark
			} else {
				data[KeyTheme] = ThemeLight
			}
			return data, nil
		},
	})
	return m
}

// DecodeLegacyJSON converts a legacy JSON settings document into a Record.
// Null values are treated as absent.
func DecodeLegacyJSON(raw []byte) (*Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("decoding legacy settings: invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if doc.Type != gjson.Null && !doc.IsObject() {
		return nil, fmt.Errorf("decoding legacy settings: expected an object, got %s", doc.Type)
	}
	data, _ := doc.Value().(map[string]any)
	if data == nil {
		data = make(map[string]any)
	}

	data, err := LegacyMigrator().Migrate(data)
	if err != nil {
		return nil, err
	}
	delete(data, schemaKey)

	rec := NewRecord()
	for key, value := range data {
		switch v := value.(type) {
		case nil:
		case string:
			rec.SetString(key, v)
		case bool:
			rec.SetBool(key, v)
		case float64:
			rec.SetInt(key, int(v))
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			rec.SetList(key, items)
		default:
			return nil, fmt.Errorf("legacy setting %s: unsupported type %T", key, value)
		}
	}
	rec.normalize()
	return rec, nil
}
