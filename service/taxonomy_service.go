package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	model "github.com/dvornik/dealdesk/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Taxonomy namespaces.
const (
	NamespacePhase    = "phase"
	NamespaceCategory = "category"
	NamespaceStatus   = "status"
)

// Well-known status tokens referenced by the task lifecycle.
const (
	StatusNotStarted = "not_started"
	StatusCompleted  = "completed"
)

// builtinValues enumerates the fixed vocabulary of each namespace, in
// display order.
var builtinValues = map[string][]string{
	NamespacePhase:    {"preliminary", "due_diligence", "negotiation", "closing", "post_closing"},
	NamespaceCategory: {"financial", "legal", "operational", "commercial", "tax", "hr"},
	NamespaceStatus:   {StatusNotStarted, "in_progress", "blocked", StatusCompleted},
}

// builtinLabels maps built-in tokens to human titles.
var builtinLabels = map[string]string{
	"preliminary":    "Preliminary Review",
	"due_diligence":  "Due Diligence",
	"negotiation":    "Negotiation",
	"closing":        "Closing",
	"post_closing":   "Post-Closing",
	"financial":      "Financial",
	"legal":          "Legal",
	"operational":    "Operational",
	"commercial":     "Commercial",
	"tax":            "Tax",
	"hr":             "HR",
	StatusNotStarted: "Not Started",
	"in_progress":    "In Progress",
	"blocked":        "Blocked",
	StatusCompleted:  "Completed",
}

// builtinColors maps built-in tokens to fixed style tokens.
var builtinColors = map[string]string{
	"preliminary":    "slate",
	"due_diligence":  "blue",
	"negotiation":    "amber",
	"closing":        "violet",
	"post_closing":   "emerald",
	"financial":      "teal",
	"legal":          "indigo",
	"operational":    "orange",
	"commercial":     "cyan",
	"tax":            "rose",
	"hr":             "lime",
	StatusNotStarted: "slate",
	"in_progress":    "blue",
	"blocked":        "rose",
	StatusCompleted:  "emerald",
}

// customPalette is the fixed palette custom values are mapped into by
// content, so the same value renders identically everywhere without any
// central color bookkeeping.
var customPalette = []string{"blue", "emerald", "amber", "violet", "rose", "cyan", "lime", "orange"}

// TaxonomyValues is the result of listing a namespace: the fixed built-in
// sequence plus the current custom extension set.
type TaxonomyValues struct {
	Builtin []string `json:"builtin"`
	Custom  []string `json:"custom"`
}

// taxonomyStore is the get-all / set-all persistence surface for custom
// value sets, one array per namespace.
type taxonomyStore interface {
	load(namespace string) ([]string, error)
	save(namespace string, values []string) error
}

type gormTaxonomyStore struct {
	db *gorm.DB
}

func (s *gormTaxonomyStore) load(namespace string) ([]string, error) {
	var setting model.TaxonomySetting
	err := s.db.Where("namespace = ?", namespace).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var values []string
	if len(setting.Values) > 0 {
		if err := json.Unmarshal(setting.Values, &values); err != nil {
			return nil, fmt.Errorf("corrupt custom value set for namespace %s: %w", namespace, err)
		}
	}
	return values, nil
}

func (s *gormTaxonomyStore) save(namespace string, values []string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	var setting model.TaxonomySetting
	err = s.db.Where("namespace = ?", namespace).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = model.TaxonomySetting{Namespace: namespace, Values: datatypes.JSON(raw)}
		return s.db.Create(&setting).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&setting).Update("Values", datatypes.JSON(raw)).Error
}

// TaxonomyService holds the canonical phase/category/status vocabularies:
// the fixed built-in sets plus user-contributed custom sets. Custom sets are
// loaded once at construction and written back on every mutation so
// concurrent views stay consistent; across sessions last write wins.
type TaxonomyService struct {
	store  taxonomyStore
	mu     sync.Mutex
	custom map[string][]string
}

// NewTaxonomyService loads the custom value sets of every namespace from the
// database.
func NewTaxonomyService(db *gorm.DB) (*TaxonomyService, error) {
	return newTaxonomyService(&gormTaxonomyStore{db: db})
}

func newTaxonomyService(store taxonomyStore) (*TaxonomyService, error) {
	s := &TaxonomyService{store: store, custom: make(map[string][]string)}
	for ns := range builtinValues {
		values, err := store.load(ns)
		if err != nil {
			log.Printf("[NewTaxonomyService] Error loading custom values for %s: %v", ns, err)
			return nil, fmt.Errorf("failed to load custom taxonomy for %s: %w", ns, err)
		}
		s.custom[ns] = values
	}
	return s, nil
}

func validNamespace(namespace string) error {
	if _, ok := builtinValues[namespace]; !ok {
		return &ValidationError{Field: "namespace", Message: fmt.Sprintf("unknown namespace %q", namespace)}
	}
	return nil
}

// normalizeToken turns user input into a stable taxonomy token: trimmed,
// lower-cased, internal whitespace collapsed to underscores.
func normalizeToken(value string) string {
	token := strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(token), "_")
}

// ListValues returns the built-in sequence and the custom set for a
// namespace. The returned slices are copies.
func (s *TaxonomyService) ListValues(namespace string) (TaxonomyValues, error) {
	if err := validNamespace(namespace); err != nil {
		return TaxonomyValues{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return TaxonomyValues{
		Builtin: append([]string(nil), builtinValues[namespace]...),
		Custom:  append([]string(nil), s.custom[namespace]...),
	}, nil
}

// AddCustomValue extends a namespace with a new token. Fails with
// DuplicateValueError when the token already exists as a built-in or custom
// value; the set is persisted before the in-memory view changes.
func (s *TaxonomyService) AddCustomValue(namespace, value string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	token := normalizeToken(value)
	if token == "" {
		return &ValidationError{Field: "value", Message: "custom value must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range builtinValues[namespace] {
		if v == token {
			return &DuplicateValueError{Namespace: namespace, Value: token}
		}
	}
	for _, v := range s.custom[namespace] {
		if v == token {
			return &DuplicateValueError{Namespace: namespace, Value: token}
		}
	}

	updated := append(append([]string(nil), s.custom[namespace]...), token)
	if err := s.store.save(namespace, updated); err != nil {
		log.Printf("[AddCustomValue] Error persisting custom values for %s: %v", namespace, err)
		return fmt.Errorf("failed to persist custom value: %w", err)
	}
	s.custom[namespace] = updated
	log.Printf("[AddCustomValue] Added custom %s value %q", namespace, token)
	return nil
}

// RemoveCustomValue deletes a custom token from a namespace. Tasks still
// carrying the token keep it; the value simply stops appearing in pickers.
func (s *TaxonomyService) RemoveCustomValue(namespace, value string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	token := normalizeToken(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, v := range s.custom[namespace] {
		if v == token {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFoundError{Entity: namespace + " custom value", ID: token}
	}

	updated := append(append([]string(nil), s.custom[namespace][:idx]...), s.custom[namespace][idx+1:]...)
	if err := s.store.save(namespace, updated); err != nil {
		log.Printf("[RemoveCustomValue] Error persisting custom values for %s: %v", namespace, err)
		return fmt.Errorf("failed to persist custom value removal: %w", err)
	}
	s.custom[namespace] = updated
	log.Printf("[RemoveCustomValue] Removed custom %s value %q", namespace, token)
	return nil
}

// IsKnown reports whether a token is currently in the namespace's built-in
// or custom set.
func (s *TaxonomyService) IsKnown(namespace, value string) bool {
	for _, v := range builtinValues[namespace] {
		if v == value {
			return true
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.custom[namespace] {
		if v == value {
			return true
		}
	}
	return false
}

// DisplayLabel maps a taxonomy token to a human title. Built-ins go through
// the fixed lookup table; anything else is title-cased with separators
// replaced by spaces. Total: never errors, never empty for non-empty input.
func DisplayLabel(namespace, value string) string {
	if label, ok := builtinLabels[value]; ok {
		return label
	}
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(value)
	return strings.Title(strings.ToLower(cleaned))
}

// ColorClass maps a taxonomy token to an opaque style token. Built-ins use
// the fixed palette map; custom values index the palette by their first
// byte, so the same value always gets the same color.
func ColorClass(namespace, value string) string {
	if color, ok := builtinColors[value]; ok {
		return color
	}
	if value == "" {
		return customPalette[0]
	}
	return customPalette[int(value[0])%len(customPalette)]
}
