// Package save persists the player and world progress as versioned JSON
// files, one file per save.
package save

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/cryptcrawl/internal/entity"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/telemetry"
	"github.com/samdwyer/cryptcrawl/internal/world"
)

// Load failures. Every failed Load matches exactly one of these.
var (
	ErrSaveNotFound     = errors.New("save not found")
	ErrSaveCorrupt      = errors.New("save file corrupt")
	ErrSaveFieldMissing = errors.New("save field missing")
)

const (
	// TimestampLayout is the format of Record.Timestamp.
	TimestampLayout = "2006-01-02T15:04:05.000000"

	filenameLayout = "save_20060102_150405"
	fileExt        = ".json"
)

// Manager reads and writes saves in one directory.
type Manager struct {
	dir     string
	catalog *gamedata.Catalog
	logger  *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTracer sets the manager's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithClock replaces time.Now for timestamps and generated filenames.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager returns a manager for dir, creating the directory if needed.
// The catalog supplies item templates and the room table used on load.
func NewManager(dir string, catalog *gamedata.Catalog, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:     dir,
		catalog: catalog,
		logger:  zap.NewNop(),
		tracer:  telemetry.Tracer("save"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return m, nil
}

// Dir returns the save directory.
func (m *Manager) Dir() string { return m.dir }

// path resolves filename inside the save directory. Directory components
// are dropped so saves cannot escape it.
func (m *Manager) path(filename string) string {
	return filepath.Join(m.dir, filepath.Base(filename))
}

// Save writes player and w to filename, or to a timestamped name when
// filename is empty, and returns the filename used. The record is written
// to a temporary file and renamed into place.
func (m *Manager) Save(ctx context.Context, player *entity.Player, w *world.World, filename string) (string, error) {
	now := m.now()
	if filename == "" {
		filename = now.Format(filenameLayout) + fileExt
	}
	filename = filepath.Base(filename)

	_, span := m.tracer.Start(ctx, "save.write")
	defer span.End()
	span.SetAttributes(
		attribute.String("filename", filename),
		attribute.String("player", player.Name),
		attribute.Int("level", player.Level),
	)

	data, err := json.MarshalIndent(newRecord(player, w, now.Format(TimestampLayout)), "", "  ")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("encode save: %w", err)
	}

	if err := writeFileAtomic(m.dir, m.path(filename), data); err != nil {
		span.SetStatus(codes.Error, err.Error())
		m.logger.Error("save failed", zap.String("filename", filename), zap.Error(err))
		return "", err
	}

	m.logger.Info("game saved",
		zap.String("filename", filename),
		zap.String("player", player.Name),
		zap.Int("level", player.Level),
	)
	return filename, nil
}

func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename save: %w", err)
	}
	return nil
}

// Load reads filename and rebuilds the player and world. On failure both
// are nil and the error matches ErrSaveNotFound, ErrSaveCorrupt or
// ErrSaveFieldMissing.
func (m *Manager) Load(ctx context.Context, filename string) (*entity.Player, *world.World, error) {
	_, span := m.tracer.Start(ctx, "save.load")
	defer span.End()
	span.SetAttributes(attribute.String("filename", filename))

	player, w, err := m.load(filename)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		m.logger.Warn("load failed", zap.String("filename", filename), zap.Error(err))
		return nil, nil, err
	}

	span.SetAttributes(
		attribute.String("player", player.Name),
		attribute.Int("level", player.Level),
	)
	m.logger.Info("game loaded",
		zap.String("filename", filename),
		zap.String("player", player.Name),
		zap.Int("level", player.Level),
	)
	return player, w, nil
}

func (m *Manager) load(filename string) (*entity.Player, *world.World, error) {
	data, err := os.ReadFile(m.path(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", filename, ErrSaveNotFound)
		}
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrSaveCorrupt, filename, err)
	}

	if err := checkFields(data); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrSaveCorrupt, filename, err)
	}
	if rec.Version != Version {
		m.logger.Warn("save version differs", zap.String("filename", filename), zap.String("version", rec.Version))
	}

	return m.restorePlayer(rec.Player), m.restoreWorld(rec.World), nil
}

// restorePlayer rebuilds a player from its record. Derived stats come from
// the raw stats, never from the stored values.
func (m *Manager) restorePlayer(rec PlayerRecord) *entity.Player {
	p := entity.NewPlayer(rec.Name, rec.Position)
	p.Level = rec.Level
	p.XP = rec.XP
	p.Strength = rec.Strength
	p.Vitality = rec.Vitality
	p.Agility = rec.Agility

	var items *gamedata.ItemRegistry
	if m.catalog != nil {
		items = m.catalog.Items
	}
	for _, ir := range rec.Inventory {
		item, ok := ir.item(items)
		if !ok {
			m.logger.Warn("skipping unknown item type", zap.String("item", ir.Name), zap.String("type", ir.Type))
			continue
		}
		p.AddItem(item)
	}

	if rec.EquippedWeapon != nil {
		p.EquipByName(gamedata.ItemWeapon, rec.EquippedWeapon.Name)
	}
	if rec.EquippedShield != nil {
		p.EquipByName(gamedata.ItemShield, rec.EquippedShield.Name)
	}
	if rec.EquippedArmor != nil {
		p.EquipByName(gamedata.ItemArmor, rec.EquippedArmor.Name)
	}

	p.RecalculateStats()
	p.HP = max(0, min(rec.HP, p.MaxHP))
	p.Mana = max(0, min(intOr(rec.Mana, p.MaxMana), p.MaxMana))
	return p
}

func (m *Manager) restoreWorld(rec WorldRecord) *world.World {
	var w *world.World
	if m.catalog != nil {
		w = world.FromCatalog(m.catalog)
	} else {
		w = world.New(nil, "")
	}
	w.Restore(rec.VisitedRooms, rec.DefeatedEnemies, rec.LootedRooms)
	return w
}

// header is the part of a record List needs.
type header struct {
	Timestamp string `json:"timestamp"`
	Player    *struct {
		Name  *string `json:"name"`
		Level *int    `json:"level"`
	} `json:"player"`
}

// List returns a summary of every readable save, newest first. Files that
// cannot be parsed are skipped. A missing directory yields no saves.
func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	_, span := m.tracer.Start(ctx, "save.list")
	defer span.End()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Summary{}, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read save dir: %w", err)
	}

	saves := []Summary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}

		summary, err := m.readHeader(entry.Name())
		if err != nil {
			m.logger.Warn("skipping unreadable save", zap.String("filename", entry.Name()), zap.Error(err))
			continue
		}
		saves = append(saves, summary)
	}

	slices.SortFunc(saves, func(a, b Summary) int {
		if c := cmp.Compare(b.Timestamp, a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.Filename, a.Filename)
	})

	span.SetAttributes(attribute.Int("count", len(saves)))
	return saves, nil
}

func (m *Manager) readHeader(filename string) (Summary, error) {
	data, err := os.ReadFile(m.path(filename))
	if err != nil {
		return Summary{}, err
	}

	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrSaveCorrupt, err)
	}
	if h.Player == nil || h.Player.Name == nil || h.Player.Level == nil {
		return Summary{}, fmt.Errorf("%w: player header", ErrSaveFieldMissing)
	}

	return Summary{
		Filename:  filename,
		Player:    *h.Player.Name,
		Level:     *h.Player.Level,
		Timestamp: h.Timestamp,
	}, nil
}

// Latest returns the newest readable save, or ErrSaveNotFound.
func (m *Manager) Latest(ctx context.Context) (Summary, error) {
	saves, err := m.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	if len(saves) == 0 {
		return Summary{}, ErrSaveNotFound
	}
	return saves[0], nil
}

// Exists reports whether filename is present in the save directory.
func (m *Manager) Exists(filename string) bool {
	_, err := os.Stat(m.path(filename))
	return err == nil
}

// Delete removes filename. Deleting a missing save returns ErrSaveNotFound.
func (m *Manager) Delete(filename string) error {
	if err := os.Remove(m.path(filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", filename, ErrSaveNotFound)
		}
		return fmt.Errorf("delete save: %w", err)
	}
	m.logger.Info("save deleted", zap.String("filename", filename))
	return nil
}
