// Package testdata loads record definitions from JSON files, creates them in
// the application through its client-side Web API and deletes them again
// when the scenario ends.
package testdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/copyleftdev/xrmsteps/internal/templating"
	"go.uber.org/zap"
)

// logicalNameKey names the table a data file creates a row in.
const logicalNameKey = "@logicalName"

// Scripter evaluates JavaScript in the application page.
type Scripter interface {
	Evaluate(ctx context.Context, script string, res interface{}) error
}

// Record is a row to create: the table's logical name and its column values.
type Record struct {
	LogicalName string
	Fields      map[string]interface{}
}

// Reference identifies a created row.
type Reference struct {
	LogicalName string
	ID          string
}

// Driver creates test records for one scenario and remembers them for cleanup.
type Driver struct {
	dir    string
	s      Scripter
	logger *zap.Logger

	mu      sync.Mutex
	created []Reference
}

func NewDriver(dir string, s Scripter, logger *zap.Logger) *Driver {
	return &Driver{dir: dir, s: s, logger: logger.Named("testdata")}
}

// Load reads <dir>/<name>, appending ".json" when name has no extension, and
// renders templates in its string values.
func (d *Driver) Load(name string) (Record, error) {
	file := name
	if filepath.Ext(file) == "" {
		file += ".json"
	}
	path := filepath.Join(d.dir, file)

	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read test data '%s': %w", name, err)
	}
	return parseRecord(name, raw)
}

func parseRecord(name string, raw []byte) (Record, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Record{}, fmt.Errorf("test data '%s' is not a JSON object: %w", name, err)
	}

	logicalName, _ := doc[logicalNameKey].(string)
	if strings.TrimSpace(logicalName) == "" {
		return Record{}, fmt.Errorf("test data '%s' has no %s", name, logicalNameKey)
	}
	delete(doc, logicalNameKey)

	rendered, err := render(doc)
	if err != nil {
		return Record{}, fmt.Errorf("test data '%s': %w", name, err)
	}
	return Record{LogicalName: logicalName, Fields: rendered.(map[string]interface{})}, nil
}

// render applies templating to every string inside v. Dates render as
// ISO-8601 so the Web API accepts them regardless of user locale.
func render(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case string:
		return templating.ReplaceISO(t)
	case map[string]interface{}:
		for k, child := range t {
			out, err := render(child)
			if err != nil {
				return nil, err
			}
			t[k] = out
		}
		return t, nil
	case []interface{}:
		for i, child := range t {
			out, err := render(child)
			if err != nil {
				return nil, err
			}
			t[i] = out
		}
		return t, nil
	}
	return v, nil
}

// Create inserts the record and tracks it for DeleteTestData.
func (d *Driver) Create(ctx context.Context, r Record) (Reference, error) {
	body, err := json.Marshal(r.Fields)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to encode %s record: %w", r.LogicalName, err)
	}
	script := fmt.Sprintf(`Xrm.WebApi.createRecord(%s, %s).then(r => r.id)`, jsString(r.LogicalName), body)

	var id string
	if err := d.s.Evaluate(ctx, script, &id); err != nil {
		return Reference{}, fmt.Errorf("failed to create %s record: %w", r.LogicalName, err)
	}

	ref := Reference{LogicalName: r.LogicalName, ID: strings.Trim(id, "{}")}
	d.mu.Lock()
	d.created = append(d.created, ref)
	d.mu.Unlock()

	d.logger.Debug("Created test record", zap.String("table", ref.LogicalName), zap.String("id", ref.ID))
	return ref, nil
}

// Created returns the tracked records in creation order.
func (d *Driver) Created() []Reference {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Reference, len(d.created))
	copy(out, d.created)
	return out
}

// DeleteTestData deletes tracked records newest first so children go before
// their parents. Every failure is reported and the tracked set is always
// cleared.
func (d *Driver) DeleteTestData(ctx context.Context) error {
	d.mu.Lock()
	created := d.created
	d.created = nil
	d.mu.Unlock()

	var errs []error
	for i := len(created) - 1; i >= 0; i-- {
		ref := created[i]
		script := fmt.Sprintf(`Xrm.WebApi.deleteRecord(%s, %s).then(() => true)`, jsString(ref.LogicalName), jsString(ref.ID))

		var ok bool
		if err := d.s.Evaluate(ctx, script, &ok); err != nil {
			d.logger.Warn("Failed to delete test record",
				zap.String("table", ref.LogicalName), zap.String("id", ref.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to delete %s %s: %w", ref.LogicalName, ref.ID, err))
		}
	}
	return errors.Join(errs...)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
