package overrides

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// RuleStore lists the override rules relevant to one concept. When taxonomy is
// given, both taxonomy-specific and taxonomy-agnostic rules are returned.
type RuleStore interface {
	ListRulesForConcept(ctx context.Context, concept string, taxonomy *string) ([]Rule, error)
}

// ruleFile is the on-disk YAML shape.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// FileSystemRuleRepository loads override rules from *.yaml files in a
// directory and optionally reloads them when the directory changes.
type FileSystemRuleRepository struct {
	dir string

	mu           sync.RWMutex
	byConcept    map[string][]Rule
	fingerprints map[string]string
	count        int
}

// NewFileSystemRuleRepository eagerly loads every rule file in dir. A missing
// directory means zero rules.
func NewFileSystemRuleRepository(dir string) (*FileSystemRuleRepository, error) {
	repo := &FileSystemRuleRepository{dir: dir}
	byConcept, fingerprints, count, err := loadRuleDir(dir)
	if err != nil {
		return nil, err
	}
	repo.byConcept, repo.fingerprints, repo.count = byConcept, fingerprints, count
	return repo, nil
}

func loadRuleDir(dir string) (map[string][]Rule, map[string]string, int, error) {
	byConcept := make(map[string][]Rule)
	fingerprints := make(map[string]string)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return byConcept, fingerprints, 0, nil
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("override rule dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, 0, fmt.Errorf("override rule path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("reading override rule dir: %w", err)
	}

	var all []Rule
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("reading rule file %s: %w", path, err)
		}
		var f ruleFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, nil, 0, fmt.Errorf("parsing rule file %s: %w", path, err)
		}
		fingerprints[e.Name()] = fmt.Sprintf("%x", sha256.Sum256(data))
		all = append(all, f.Rules...)
	}

	if err := ValidateRules(all); err != nil {
		return nil, nil, 0, fmt.Errorf("override rules in %s: %w", dir, err)
	}
	for _, r := range all {
		byConcept[r.SourceConcept] = append(byConcept[r.SourceConcept], r)
	}
	for concept := range byConcept {
		rules := byConcept[concept]
		sort.Slice(rules, func(i, j int) bool { return rules[i].RuleID < rules[j].RuleID })
	}
	return byConcept, fingerprints, len(all), nil
}

// ListRulesForConcept implements RuleStore.
func (r *FileSystemRuleRepository) ListRulesForConcept(_ context.Context, concept string, taxonomy *string) ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Rule
	for _, rule := range r.byConcept[concept] {
		if rule.SourceTaxonomy != nil && (taxonomy == nil || *rule.SourceTaxonomy != *taxonomy) {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

// Count returns the number of loaded rules.
func (r *FileSystemRuleRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Fingerprints returns the SHA-256 of each loaded file keyed by file name.
func (r *FileSystemRuleRepository) Fingerprints() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.fingerprints))
	for k, v := range r.fingerprints {
		out[k] = v
	}
	return out
}

// Reload re-reads the directory. On failure the current rules are kept.
func (r *FileSystemRuleRepository) Reload() error {
	byConcept, fingerprints, count, err := loadRuleDir(r.dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.byConcept, r.fingerprints, r.count = byConcept, fingerprints, count
	r.mu.Unlock()
	return nil
}

// Watch reloads rules whenever a file in the directory is written, created or
// removed, until ctx is cancelled.
func (r *FileSystemRuleRepository) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("override rule watcher: %w", err)
	}
	if err := w.Add(r.dir); err != nil {
		w.Close()
		return fmt.Errorf("override rule watcher add %s: %w", r.dir, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					if err := r.Reload(); err != nil {
						slog.Warn("[Overrides] Reload failed, keeping previous rules", "dir", r.dir, "error", err)
						continue
					}
					slog.Info("[Overrides] Rules reloaded", "dir", r.dir, "rules", r.Count())
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("[Overrides] Watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
