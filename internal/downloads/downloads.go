package downloads

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"sort"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoReleases     = errors.New("no available releases")
	ErrUnknownRelease = errors.New("release not available")
)

/**
 * ISO images of one desktop
 * @property {map[string]string} url - Download link per architecture
 * @property {map[string]string} checksum - Hash per algorithm
 */
type ISO struct {
	URL      map[string]string `yaml:"url" json:"url"`
	Checksum map[string]string `yaml:"checksum" json:"checksum"`
}

type Release struct {
	Version   string         `yaml:"version" json:"version"`
	Available bool           `yaml:"available" json:"available"`
	IsCurrent bool           `yaml:"isCurrent" json:"isCurrent"`
	IsStable  bool           `yaml:"isStable" json:"isStable"`
	ISOs      map[string]ISO `yaml:"isos" json:"isos"`
}

/**
 * Download map document
 * @property {[]Release} releases - Every published release, available or not
 * @property {map[string]string} desktops - Display label per desktop key
 */
type Map struct {
	Releases []Release         `yaml:"releases" json:"releases"`
	Desktops map[string]string `yaml:"desktops" json:"desktops"`
}

// Parse decodes a download map. JSON documents are accepted as YAML.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse download map: %w", err)
	}
	return &m, nil
}

func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read download map: %w", err)
	}
	return Parse(data)
}

/**
 * Available releases, newest first
 * @description
 * - Versions are compared with hashicorp/go-version
 * - Unparseable versions sort after parseable ones, by string
 */
func (m *Map) Available() []Release {
	releases := make([]Release, 0, len(m.Releases))
	for _, r := range m.Releases {
		if r.Available {
			releases = append(releases, r)
		}
	}
	sort.SliceStable(releases, func(i, j int) bool {
		vi, erri := version.NewVersion(releases[i].Version)
		vj, errj := version.NewVersion(releases[j].Version)
		switch {
		case erri == nil && errj == nil:
			return vi.GreaterThan(vj)
		case erri == nil:
			return true
		case errj == nil:
			return false
		}
		return releases[i].Version > releases[j].Version
	})
	return releases
}

// DesktopLabel returns the display label of a desktop, "Unknown" when unlisted.
func (m *Map) DesktopLabel(d string) string {
	if label, ok := m.Desktops[d]; ok {
		return label
	}
	return "Unknown"
}

// FormatShortHash abbreviates hashes longer than 16 characters to "first8...last8".
func FormatShortHash(hash string) string {
	if len(hash) > 16 {
		return hash[:8] + "..." + hash[len(hash)-8:]
	}
	return hash
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

/**
 * Download page state: chosen release and desktop
 * @description
 * - Only available releases can be chosen
 * - The desktop is re-validated whenever the release changes
 */
type Selector struct {
	m        *Map
	releases []Release
	intn     func(n int) int

	release Release
	desktop string
}

/**
 * Create a selector over a download map
 * @param {*Map} m - Download map
 * @param {func(int) int} intn - Random source for the desktop fallback, nil uses math/rand
 * @returns {*Selector} Selector on the newest available release
 * @returns {error} ErrNoReleases when nothing is available
 */
func NewSelector(m *Map, intn func(n int) int) (*Selector, error) {
	releases := m.Available()
	if len(releases) == 0 {
		return nil, ErrNoReleases
	}
	if intn == nil {
		intn = rand.IntN
	}
	s := &Selector{m: m, releases: releases, intn: intn}
	s.setRelease(releases[0])
	return s, nil
}

func (s *Selector) Releases() []Release {
	return s.releases
}

func (s *Selector) Release() Release {
	return s.release
}

func (s *Selector) Desktop() string {
	return s.desktop
}

/**
 * Pick the release and desktop from page arguments
 * @param {map[string]string} args - "v" selects a version, "d" a desktop
 * @returns {Release} Chosen release
 * @description
 * - Without "v" the last release flagged current and stable wins
 * - Falls back to the newest release
 * - "d" is honoured when the release offers it, otherwise a random desktop is picked
 */
func (s *Selector) PreferredRelease(args map[string]string) Release {
	chosen := s.releases[0]
	if v, ok := args["v"]; ok {
		for _, r := range s.releases {
			if r.Version == v {
				chosen = r
			}
		}
	} else {
		for _, r := range s.releases {
			if r.IsCurrent && r.IsStable {
				chosen = r
			}
		}
	}
	s.release = chosen

	desktops := s.Desktops()
	if d, ok := args["d"]; ok && slices.Contains(desktops, d) {
		s.desktop = d
	} else {
		s.desktop = s.randomDesktop(desktops)
	}
	return chosen
}

// SelectRelease switches to version, keeping the desktop when the release offers it.
func (s *Selector) SelectRelease(v string) error {
	for _, r := range s.releases {
		if r.Version == v {
			s.setRelease(r)
			return nil
		}
	}
	return fmt.Errorf("release %s: %w", v, ErrUnknownRelease)
}

func (s *Selector) setRelease(r Release) {
	s.release = r
	if desktops := s.Desktops(); !slices.Contains(desktops, s.desktop) {
		s.desktop = s.randomDesktop(desktops)
	}
}

func (s *Selector) randomDesktop(desktops []string) string {
	if len(desktops) == 0 {
		return ""
	}
	return desktops[s.intn(len(desktops))]
}

func (s *Selector) SelectDesktop(d string) {
	s.desktop = d
}

// Desktops offered by the current release, sorted.
func (s *Selector) Desktops() []string {
	return sortedKeys(s.release.ISOs)
}

// Archs offered for the current desktop, sorted.
func (s *Selector) Archs() []string {
	iso, ok := s.release.ISOs[s.desktop]
	if !ok {
		return []string{}
	}
	return sortedKeys(iso.URL)
}

func (s *Selector) ValidDesktop() bool {
	return s.desktop != ""
}

func (s *Selector) IsSelected(d string) bool {
	return s.desktop != "" && s.desktop == d
}

func (s *Selector) DesktopLabel(d string) string {
	return s.m.DesktopLabel(d)
}

// Links returns the per-arch links of the current desktop, empty when it is not offered.
func (s *Selector) Links() map[string]string {
	if iso, ok := s.release.ISOs[s.desktop]; ok && iso.URL != nil {
		return iso.URL
	}
	return map[string]string{}
}

func (s *Selector) Checksums() map[string]string {
	if iso, ok := s.release.ISOs[s.desktop]; ok && iso.Checksum != nil {
		return iso.Checksum
	}
	return map[string]string{}
}

func (s *Selector) IsReleaseStable() bool {
	return s.release.IsStable
}

// StabilityString describes the release, e.g. "the latest stable version".
func (s *Selector) StabilityString() string {
	str := "the previous "
	if s.release.IsCurrent {
		str = "the latest "
	}
	if s.release.IsStable {
		str += "stable "
	} else {
		str += "beta "
	}
	return str + "version"
}

// Selection is the rendered download page.
type Selection struct {
	Version      string            `json:"version"`
	Versions     []string          `json:"versions"`
	Desktop      string            `json:"desktop"`
	DesktopLabel string            `json:"desktop_label"`
	Desktops     map[string]string `json:"desktops"`
	Archs        []string          `json:"archs"`
	Links        map[string]string `json:"links"`
	Checksums    map[string]string `json:"checksums"`
	ShortHashes  map[string]string `json:"short_hashes"`
	Stability    string            `json:"stability"`
}

func (s *Selector) Selection() Selection {
	sel := Selection{
		Version:      s.release.Version,
		Versions:     make([]string, 0, len(s.releases)),
		Desktop:      s.desktop,
		DesktopLabel: s.DesktopLabel(s.desktop),
		Desktops:     make(map[string]string),
		Archs:        s.Archs(),
		Links:        s.Links(),
		Checksums:    s.Checksums(),
		ShortHashes:  make(map[string]string),
		Stability:    s.StabilityString(),
	}
	for _, r := range s.releases {
		sel.Versions = append(sel.Versions, r.Version)
	}
	for _, d := range s.Desktops() {
		sel.Desktops[d] = s.DesktopLabel(d)
	}
	for algo, hash := range sel.Checksums {
		sel.ShortHashes[algo] = FormatShortHash(hash)
	}
	return sel
}
