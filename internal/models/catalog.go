package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Package action flags carried in the "z" key of a catalog entry.
const (
	ActionInclude = 0x01
	ActionExclude = 0x02
	ActionPin     = 0x80
)

// FlexString accepts a JSON string or number; the catalog sends epochs both ways.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("FlexString: cannot parse %s", string(b))
	}
	*s = FlexString(num.String())
	return nil
}

/**
 * Catalog package entry (compact JSON keys as served by the catalog API)
 * @property {int64} id - Server assigned identifier, 0 when unknown
 * @property {string} n - Package name
 * @property {string} e - Epoch
 * @property {string} v - Version
 * @property {string} r - Release
 * @property {string} a - Architecture
 * @property {int} z - Action flags (include/exclude/pin)
 * @property {int64} template - Template that contributed the entry after flattening
 */
type CatalogEntry struct {
	ID       int64      `json:"id,omitempty"`
	Name     string     `json:"n"`
	Epoch    FlexString `json:"e,omitempty"`
	Version  string     `json:"v,omitempty"`
	Release  string     `json:"r,omitempty"`
	Arch     string     `json:"a,omitempty"`
	Action   int        `json:"z,omitempty"`
	Template int64      `json:"template,omitempty"`
}

// EVR formats epoch:version-release.
func (e CatalogEntry) EVR() string {
	return string(e.Epoch) + ":" + e.Version + "-" + e.Release
}

func (e CatalogEntry) actions() int {
	if e.Action == 0 {
		return ActionInclude
	}
	return e.Action
}

func (e CatalogEntry) IsIncluded() bool { return e.actions()&ActionInclude != 0 }
func (e CatalogEntry) IsExcluded() bool { return e.actions()&ActionExclude != 0 }
func (e CatalogEntry) IsPinned() bool   { return e.actions()&ActionPin != 0 }

/**
 * Package repository attached to a template
 */
type Repository struct {
	Stub        string `json:"s,omitempty"`
	Name        string `json:"n,omitempty"`
	BaseURL     string `json:"bu,omitempty"`
	MirrorList  string `json:"ml,omitempty"`
	Metalink    string `json:"ma,omitempty"`
	Enabled     *bool  `json:"e,omitempty"`
	GPGCheck    *bool  `json:"gc,omitempty"`
	GPGKey      string `json:"gk,omitempty"`
	MetaExpired string `json:"me,omitempty"`
	Cost        *int   `json:"c,omitempty"`
	Exclude     string `json:"x,omitempty"`
}

/**
 * Template: a named package collection plus included sub-templates
 * @property {int64} id - Template identifier
 * @property {[]CatalogEntry} packages - Own packages, replaced by the flattened list once resolved
 * @property {[]*Template} includes - Included templates, populated lazily
 */
type Template struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name,omitempty"`
	User        string         `json:"user,omitempty"`
	Description string         `json:"description,omitempty"`
	Repos       []Repository   `json:"repos,omitempty"`
	Packages    []CatalogEntry `json:"packages"`
	Includes    []*Template    `json:"includes,omitempty"`
}

// UnmarshalJSON accepts both "user" and "owner", and string ids.
func (t *Template) UnmarshalJSON(b []byte) error {
	type plain Template
	var raw struct {
		plain
		ID    json.RawMessage `json:"id"`
		Owner string          `json:"owner"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Template(raw.plain)
	if t.User == "" {
		t.User = raw.Owner
	}
	if len(raw.ID) > 0 && string(raw.ID) != "null" {
		var id FlexString
		if err := json.Unmarshal(raw.ID, &id); err != nil {
			return err
		}
		if id != "" {
			n, err := strconv.ParseInt(string(id), 10, 64)
			if err != nil {
				return fmt.Errorf("template id %q: %w", id, err)
			}
			t.ID = n
		}
	}
	return nil
}

/**
 * One page of the catalog listing as returned by GET /api/packages
 */
type PageData struct {
	Page          int            `json:"page"`
	LastPage      int            `json:"last_page"`
	TotalItems    int            `json:"total_items"`
	PageSize      int            `json:"page_size"`
	PageItemFirst int            `json:"page_item_first,omitempty"`
	PageItemLast  int            `json:"page_item_last,omitempty"`
	Packages      []CatalogEntry `json:"packages"`
}

/**
 * Cached package detail
 * @property {bool} selected - Row selected in the browser
 * @property {bool} visible - Detail panel expanded
 * @property {bool} loading - Request for this id still outstanding
 * @property {map[string]interface{}} fields - Server supplied detail fields
 */
type PackageDetail struct {
	ID       int64                  `json:"id"`
	Selected bool                   `json:"selected"`
	Visible  bool                   `json:"visible"`
	Loading  bool                   `json:"loading"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
}
