package persist

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrVersionNotFound indicates the requested version index does not
	// exist.
	ErrVersionNotFound = errors.New("persist: version not found")

	// ErrVersionCorrupt indicates a stored patch could not be parsed or
	// applied cleanly.
	ErrVersionCorrupt = errors.New("persist: version chain corrupt")
)

// Version is one named save point, stored as a forward patch from the
// previous version's compiled text. Reconstruction replays the chain
// from the empty document, so no version stores full text.
type Version struct {
	Name      string
	Timestamp time.Time
	Patches   string
}

// VersionLog holds the ordered patch chain for one document.
type VersionLog struct {
	mu       sync.Mutex
	dmp      *diffmatchpatch.DiffMatchPatch
	versions []Version
	lastText string
}

// NewVersionLog returns an empty log.
func NewVersionLog() *VersionLog {
	return &VersionLog{dmp: diffmatchpatch.New()}
}

// LoadVersionLog rebuilds a log from previously stored versions,
// replaying the chain to recover the tail text for future appends.
func LoadVersionLog(versions []Version) (*VersionLog, error) {
	l := &VersionLog{
		dmp:      diffmatchpatch.New(),
		versions: append([]Version(nil), versions...),
	}
	if len(l.versions) == 0 {
		return l, nil
	}
	text, err := l.reconstructLocked(len(l.versions) - 1)
	if err != nil {
		return nil, err
	}
	l.lastText = text
	return l, nil
}

// Append records a new version holding the patch from the previous
// version's text to the given text.
func (l *VersionLog) Append(name, text string) Version {
	l.mu.Lock()
	defer l.mu.Unlock()

	patches := l.dmp.PatchMake(l.lastText, text)
	v := Version{
		Name:      name,
		Timestamp: time.Now(),
		Patches:   l.dmp.PatchToText(patches),
	}
	l.versions = append(l.versions, v)
	l.lastText = text
	return v
}

// Count returns the number of stored versions.
func (l *VersionLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.versions)
}

// Versions returns a copy of the stored versions in order.
func (l *VersionLog) Versions() []Version {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Version(nil), l.versions...)
}

// Reconstruct returns the full text of the version at the index by
// applying the patch chain from the empty document.
func (l *VersionLog) Reconstruct(index int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reconstructLocked(index)
}

// EncodeVersion renders one version entry as a JSON document for remote
// storage. The layout is shared with other clients: timestamp and
// patches at the top level, the save name under metadata.
func EncodeVersion(v Version) string {
	doc := "{}"
	doc, _ = sjson.Set(doc, "timestamp", v.Timestamp.UTC().Format(time.RFC3339Nano))
	doc, _ = sjson.Set(doc, "patches", v.Patches)
	doc, _ = sjson.Set(doc, "metadata.name", v.Name)
	return doc
}

// DecodeVersion parses a stored version entry. A missing patches field
// or an unparseable timestamp marks the entry corrupt; an empty patches
// string is legal (identical consecutive saves).
func DecodeVersion(doc string) (Version, error) {
	if !gjson.Valid(doc) {
		return Version{}, fmt.Errorf("%w: invalid entry", ErrVersionCorrupt)
	}
	r := gjson.Parse(doc)
	if !r.Get("patches").Exists() {
		return Version{}, fmt.Errorf("%w: missing patches", ErrVersionCorrupt)
	}
	v := Version{
		Name:    r.Get("metadata.name").String(),
		Patches: r.Get("patches").String(),
	}
	if ts := r.Get("timestamp").String(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Version{}, fmt.Errorf("%w: bad timestamp %q", ErrVersionCorrupt, ts)
		}
		v.Timestamp = t
	}
	return v, nil
}

func (l *VersionLog) reconstructLocked(index int) (string, error) {
	if index < 0 || index >= len(l.versions) {
		return "", ErrVersionNotFound
	}
	text := ""
	for i := 0; i <= index; i++ {
		patches, err := l.dmp.PatchFromText(l.versions[i].Patches)
		if err != nil {
			return "", ErrVersionCorrupt
		}
		applied, results := l.dmp.PatchApply(patches, text)
		for _, ok := range results {
			if !ok {
				return "", ErrVersionCorrupt
			}
		}
		text = applied
	}
	return text, nil
}
