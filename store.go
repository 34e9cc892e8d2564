package entities

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-entities/pkg/activity"
)

const defaultPreviewCacheSize = 128

// SaveState tracks an in-flight or settled save for one record.
type SaveState struct {
	Pending    bool
	IsAutosave bool
	Err        error
}

// DeleteState tracks an in-flight or settled delete for one record.
type DeleteState struct {
	Pending bool
	Err     error
}

// bucket holds all cached state for one (kind, name) pair. Inner maps are
// replaced wholesale on mutation so selector memoization can compare them by
// reference.
type bucket struct {
	items    map[string]map[string]Record // context -> id -> record
	complete map[string]map[string]bool   // context -> id -> fully fetched
	edits    map[string]Record            // id -> pending field deltas
	saving   map[string]SaveState
	deleting map[string]DeleteState
}

func newBucket() *bucket {
	return &bucket{
		items:    map[string]map[string]Record{},
		complete: map[string]map[string]bool{},
		edits:    map[string]Record{},
		saving:   map[string]SaveState{},
		deleting: map[string]DeleteState{},
	}
}

// Store owns the normalized entity-record state tree and exposes the
// selector layer as its read API. All reads execute synchronously against the
// in-memory state; asynchronous fetches are driven externally (see
// pkg/remote) and land through the Receive* mutations.
type Store struct {
	mu     sync.RWMutex
	evalMu sync.Mutex
	cfg    storeConfig

	registry *ConfigRegistry
	buckets  map[string]*bucket

	history       []HistoryEntry
	historyOffset int

	currentUser   Record
	permissions   map[string]bool
	autosaves     map[string][]Record
	themeSupports Record
	currentTheme  Record
	globalStyles  map[string]Record

	resolution map[string]map[string]*resolutionStatus

	previews   *lru.Cache[string, Record]
	recordMemo *depsCache
	editedMemo *depsCache

	deprecated *deprecationWarnings
}

// NewStore constructs a store over the supplied config registry. A nil
// registry gets the default entity configurations.
func NewStore(registry *ConfigRegistry, opts ...Option) *Store {
	if registry == nil {
		registry, _ = NewConfigRegistry(DefaultConfigs()...)
	}
	cfg := applyOptions(opts)
	size := cfg.previewCacheSize
	if size <= 0 {
		size = defaultPreviewCacheSize
	}
	previews, _ := lru.New[string, Record](size)
	return &Store{
		cfg:          cfg,
		registry:     registry,
		buckets:      map[string]*bucket{},
		permissions:  map[string]bool{},
		autosaves:    map[string][]Record{},
		globalStyles: map[string]Record{},
		resolution:   map[string]map[string]*resolutionStatus{},
		previews:     previews,
		recordMemo:   newDepsCache(),
		editedMemo:   newDepsCache(),
		deprecated:   newDeprecationWarnings(cfg.warn),
	}
}

// Registry returns the config registry backing the store.
func (s *Store) Registry() *ConfigRegistry {
	return s.registry
}

// GetConfig returns the entity configuration for (kind, name).
func (s *Store) GetConfig(kind, name string) (Config, bool) {
	return s.registry.Lookup(kind, name)
}

func (s *Store) configOrError(kind, name string) (Config, error) {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return Config{}, fmt.Errorf("%w: %s/%s", ErrConfigNotFound, kind, name)
	}
	return cfg, nil
}

func (s *Store) bucketFor(slug string) *bucket {
	b, ok := s.buckets[slug]
	if !ok {
		b = newBucket()
		s.buckets[slug] = b
	}
	return b
}

// ReceiveEntityRecords lands fetched records in the cache under the query's
// context. Records fetched without a field filter are marked complete; a
// filtered fetch stores the partial item without granting completeness.
func (s *Store) ReceiveEntityRecords(kind, name string, records []Record, queries ...Query) error {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return err
	}
	query := firstQuery(queries)
	ctx := query.context()
	full := len(query.Fields) == 0

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucketFor(cfg.slug())

	items := cloneItemMap(b.items[ctx])
	complete := cloneFlagMap(b.complete[ctx])
	for _, record := range records {
		id := recordKeyString(record[cfg.keyField()])
		if id == "" {
			continue
		}
		if full {
			items[id] = record.Clone()
			complete[id] = true
			continue
		}
		// Partial fetch: merge the received fields over whatever is cached so
		// repeated filtered reads accumulate, but never mark complete.
		items[id] = OverlayEdits(items[id], record.Clone())
	}
	b.items[ctx] = items
	b.complete[ctx] = complete
	return nil
}

// EditOption configures a single edit application.
type EditOption func(*editConfig)

type editConfig struct {
	undoIgnore bool
}

// WithUndoIgnored applies the edit without recording an undo level.
func WithUndoIgnored() EditOption {
	return func(cfg *editConfig) {
		cfg.undoIgnore = true
	}
}

// EditEntityRecord overlays field-level deltas for one record. Writing a field
// back to its raw persisted value removes it from the edit bucket, so a
// round-tripped value never leaves the record dirty. Edits touching at least
// one non-transient field record an undo level.
func (s *Store) EditEntityRecord(kind, name, id string, edits Record, opts ...EditOption) error {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return err
	}
	ec := editConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&ec)
		}
	}

	s.mu.Lock()
	b := s.bucketFor(cfg.slug())
	raw := rawView(cfg, s.lockedAnyContextItem(b, id))

	prev := b.edits[id]
	next := make(Record, len(prev)+len(edits))
	for field, value := range prev {
		next[field] = value
	}
	touchedPersistent := false
	touchedFields := make([]string, 0, len(edits))
	for field, value := range edits {
		touchedFields = append(touchedFields, field)
		if !cfg.isTransient(field) {
			touchedPersistent = true
		}
		if current, ok := raw[field]; ok && equalValue(current, value) {
			delete(next, field)
			continue
		}
		next[field] = value
	}
	if len(next) == 0 {
		delete(b.edits, id)
	} else {
		b.edits[id] = next
	}

	if touchedPersistent && !ec.undoIgnore {
		s.lockedPushHistory(cfg, id, prev, next)
	}
	s.mu.Unlock()

	sort.Strings(touchedFields)
	s.emit(activity.BuildEntityEditedEvent(activity.EntityEventInput{
		Kind:     kind,
		Name:     name,
		RecordID: id,
		Fields:   touchedFields,
	}))
	return nil
}

// SaveEntityRecordStart marks a record as being saved.
func (s *Store) SaveEntityRecordStart(kind, name, id string, isAutosave bool) error {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	b := s.bucketFor(cfg.slug())
	b.saving[id] = SaveState{Pending: true, IsAutosave: isAutosave}
	s.mu.Unlock()
	return nil
}

// SaveEntityRecordFinish settles a save. On success the persisted record (when
// supplied) replaces the cached item in the default context and the
// non-transient edit bucket is cleared; autosaves keep the edit bucket intact.
// On failure the error is retained, readable via GetLastEntitySaveError.
func (s *Store) SaveEntityRecordFinish(kind, name, id string, saved Record, saveErr error) error {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	b := s.bucketFor(cfg.slug())
	state := b.saving[id]
	wasAutosave := state.IsAutosave
	b.saving[id] = SaveState{Pending: false, IsAutosave: wasAutosave, Err: saveErr}
	if saveErr == nil {
		if saved != nil {
			items := cloneItemMap(b.items[DefaultContext])
			complete := cloneFlagMap(b.complete[DefaultContext])
			items[id] = saved.Clone()
			complete[id] = true
			b.items[DefaultContext] = items
			b.complete[DefaultContext] = complete
		}
		if !wasAutosave {
			s.lockedClearPersistentEdits(cfg, b, id)
		}
	}
	s.mu.Unlock()

	input := activity.EntityEventInput{
		Kind:       kind,
		Name:       name,
		RecordID:   id,
		IsAutosave: wasAutosave,
		Err:        saveErr,
	}
	if saveErr != nil {
		s.emit(activity.BuildEntitySaveFailedEvent(input))
	} else {
		s.emit(activity.BuildEntitySavedEvent(input))
	}
	return nil
}

// DeleteEntityRecordStart marks a record as being deleted.
func (s *Store) DeleteEntityRecordStart(kind, name, id string) error {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	b := s.bucketFor(cfg.slug())
	b.deleting[id] = DeleteState{Pending: true}
	s.mu.Unlock()
	return nil
}

// DeleteEntityRecordFinish settles a delete. On success the record is evicted
// from every context along with its edits.
func (s *Store) DeleteEntityRecordFinish(kind, name, id string, deleteErr error) error {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	b := s.bucketFor(cfg.slug())
	b.deleting[id] = DeleteState{Pending: false, Err: deleteErr}
	if deleteErr == nil {
		for ctx, items := range b.items {
			if _, ok := items[id]; !ok {
				continue
			}
			next := cloneItemMap(items)
			delete(next, id)
			b.items[ctx] = next
			flags := cloneFlagMap(b.complete[ctx])
			delete(flags, id)
			b.complete[ctx] = flags
		}
		delete(b.edits, id)
	}
	s.mu.Unlock()

	if deleteErr == nil {
		s.emit(activity.BuildEntityDeletedEvent(activity.EntityEventInput{
			Kind:     kind,
			Name:     name,
			RecordID: id,
		}))
	}
	return nil
}

// ReceiveCurrentUser stores the authenticated user record.
func (s *Store) ReceiveCurrentUser(user Record) {
	s.mu.Lock()
	s.currentUser = user.Clone()
	s.mu.Unlock()
}

// ReceiveThemeSupports stores the active theme's feature support map.
func (s *Store) ReceiveThemeSupports(supports Record) {
	s.mu.Lock()
	s.themeSupports = supports.Clone()
	s.mu.Unlock()
}

// ReceiveCurrentTheme stores the active theme record.
func (s *Store) ReceiveCurrentTheme(theme Record) {
	s.mu.Lock()
	s.currentTheme = theme.Clone()
	s.mu.Unlock()
}

// ReceiveGlobalStyles stores a global-styles record under its stylesheet
// identifier.
func (s *Store) ReceiveGlobalStyles(stylesheet string, styles Record) {
	s.mu.Lock()
	s.globalStyles[stylesheet] = styles.Clone()
	s.mu.Unlock()
}

// ReceiveAutosaves replaces the autosaves cached for a parent record.
func (s *Store) ReceiveAutosaves(parentID string, autosaves []Record) {
	cloned := make([]Record, len(autosaves))
	for i, autosave := range autosaves {
		cloned[i] = autosave.Clone()
	}
	s.mu.Lock()
	s.autosaves[parentID] = cloned
	s.mu.Unlock()
}

// lockedAnyContextItem returns the cached record for id from the default
// context, falling back to any context that has it. Caller holds the lock.
func (s *Store) lockedAnyContextItem(b *bucket, id string) Record {
	if record, ok := b.items[DefaultContext][id]; ok {
		return record
	}
	for _, items := range b.items {
		if record, ok := items[id]; ok {
			return record
		}
	}
	return nil
}

// lockedClearPersistentEdits drops every non-transient key from the edit
// bucket, keeping transient edits (block selection and the like) alive across
// a save. Caller holds the lock.
func (s *Store) lockedClearPersistentEdits(cfg Config, b *bucket, id string) {
	current := b.edits[id]
	if len(current) == 0 {
		return
	}
	next := Record{}
	for field, value := range current {
		if cfg.isTransient(field) {
			next[field] = value
		}
	}
	if len(next) == 0 {
		delete(b.edits, id)
		return
	}
	b.edits[id] = next
}

func (s *Store) emit(event activity.Event) {
	if !s.cfg.activityHooks.Enabled() {
		return
	}
	if err := s.cfg.activityHooks.Notify(context.Background(), event); err != nil && s.cfg.warn != nil {
		s.cfg.warn.Warn("entities: activity hook: " + err.Error())
	}
}

func cloneItemMap(src map[string]Record) map[string]Record {
	out := make(map[string]Record, len(src)+1)
	for id, record := range src {
		out[id] = record
	}
	return out
}

func cloneFlagMap(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src)+1)
	for id, flag := range src {
		out[id] = flag
	}
	return out
}

// equalValue reports whether an edited value round-trips to the persisted
// one. Deep equality matters for map/slice payloads coming off JSON decodes.
func equalValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// recordKeyString coerces a primary-key value into the string form used for
// bucket keys. Numeric fidelity is preserved separately by reading the key
// back off the record when building identity lists.
func recordKeyString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprint(typed)
	}
}
