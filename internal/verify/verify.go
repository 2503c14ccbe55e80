// Package verify audits a dataset root for index/asset consistency.
//
// It confirms every listed record has exactly one asset, flags assets nothing
// references, and reports transcript text that is not NFC-normalized, which
// tends to break tokenizers downstream.
package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"subsample/internal/metadata"
)

// Report collects the findings for one dataset root.
type Report struct {
	Root          string
	Records       int
	DuplicateIDs  []string
	MissingAssets []string
	OrphanAssets  []string
	NotNFC        []string
}

// Consistent reports whether the dataset passes the hard checks. Orphan
// assets and normalization findings are informational only.
func (r *Report) Consistent() bool {
	return len(r.DuplicateIDs) == 0 && len(r.MissingAssets) == 0
}

// Check audits the dataset at root. Root must follow the standard layout
// (metadata.csv plus a wavs directory).
func Check(root string) (*Report, error) {
	expanded, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	records, err := metadata.ReadIndex(filepath.Join(expanded, metadata.IndexFileName))
	if err != nil {
		return nil, err
	}

	wavsDir := filepath.Join(expanded, metadata.WavsDirName)
	entries, err := os.ReadDir(wavsDir)
	if err != nil {
		return nil, fmt.Errorf("read wavs directory: %w", err)
	}

	report := &Report{Root: expanded, Records: len(records)}

	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(filepath.Ext(name), ".wav") {
			present[name] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(records))
	referenced := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			report.DuplicateIDs = append(report.DuplicateIDs, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		asset := metadata.AssetName(rec.ID)
		referenced[asset] = struct{}{}
		if _, ok := present[asset]; !ok {
			report.MissingAssets = append(report.MissingAssets, rec.ID)
		}

		if !norm.NFC.IsNormalString(rec.Text) || !norm.NFC.IsNormalString(rec.NormalizedText) {
			report.NotNFC = append(report.NotNFC, rec.ID)
		}
	}

	for name := range present {
		if _, ok := referenced[name]; !ok {
			report.OrphanAssets = append(report.OrphanAssets, name)
		}
	}
	sort.Strings(report.OrphanAssets)

	return report, nil
}
