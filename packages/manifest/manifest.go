// Package manifest writes a JSON sidecar next to the evidence document
// describing the session that produced it, so a later resume can inherit
// its settings.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Manifest describes a finished session
type Manifest struct {
	SessionID     string    `json:"sessionId"`
	CaseName      string    `json:"caseName"`
	Version       string    `json:"version"`
	Document      string    `json:"document"`
	Workbook      string    `json:"workbook,omitempty"`
	Mode          string    `json:"mode"`
	IncrementStep int       `json:"incrementStep"`
	NextNumber    int       `json:"nextNumber"`
	StoppedAt     time.Time `json:"stoppedAt"`
	Artifacts     []Item    `json:"artifacts"`
}

// Item is one artifact in the manifest
type Item struct {
	Label   string `json:"label"`
	Caption string `json:"caption"`
	Image   string `json:"image"`
	Error   string `json:"error,omitempty"`
}

// PathFor returns the manifest path for a document.
func PathFor(documentPath string) string {
	return strings.TrimSuffix(documentPath, filepath.Ext(documentPath)) + ".manifest.json"
}

// Write saves m next to its document.
func Write(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(PathFor(m.Document), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Read loads the manifest for a document. Only the fields a resume needs are
// extracted; unknown or missing fields are tolerated.
func Read(documentPath string) (*Manifest, error) {
	data, err := os.ReadFile(PathFor(documentPath))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("manifest for %s is not valid JSON", filepath.Base(documentPath))
	}

	result := gjson.ParseBytes(data)
	m := &Manifest{
		SessionID:     result.Get("sessionId").String(),
		CaseName:      result.Get("caseName").String(),
		Version:       result.Get("version").String(),
		Document:      documentPath,
		Workbook:      result.Get("workbook").String(),
		Mode:          result.Get("mode").String(),
		IncrementStep: int(result.Get("incrementStep").Int()),
		NextNumber:    int(result.Get("nextNumber").Int()),
	}
	if ts := result.Get("stoppedAt"); ts.Exists() {
		m.StoppedAt = ts.Time()
	}
	result.Get("artifacts").ForEach(func(_, v gjson.Result) bool {
		m.Artifacts = append(m.Artifacts, Item{
			Label:   v.Get("label").String(),
			Caption: v.Get("caption").String(),
			Image:   v.Get("image").String(),
			Error:   v.Get("error").String(),
		})
		return true
	})
	return m, nil
}
