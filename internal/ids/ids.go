// Package ids mints and parses the hierarchical identifiers used across
// the corpus: UC-<CAT>-<NNN> for use cases and <use-case-id>-S<NN> for
// scenarios. Counters are scoped to the category and derived from both the
// loaded records and any files already present on disk.
package ids

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// ErrParse is returned when an id does not match the identifier scheme.
var ErrParse = errors.New("malformed use case id")

var (
	useCaseIDRe  = regexp.MustCompile(`(?i)^UC-([A-Z]{3})-(\d{3})$`)
	scenarioIDRe = regexp.MustCompile(`(?i)^(UC-[A-Z]{3}-\d{3})-S(\d{2})$`)
)

// ParsedID is the decomposed form of a use case id.
type ParsedID struct {
	CategoryCode string // Three upper-case letters.
	Number       int
}

// Parse decomposes a use case id. Parsing is case-tolerant; the category
// code is canonicalised to upper case.
func Parse(id string) (ParsedID, error) {
	m := useCaseIDRe.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return ParsedID{}, fmt.Errorf("%w: %q", ErrParse, id)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return ParsedID{}, fmt.Errorf("%w: %q", ErrParse, id)
	}
	return ParsedID{CategoryCode: strings.ToUpper(m[1]), Number: n}, nil
}

// CategoryCode derives the three-letter code for a category: the first
// three alphabetic characters upper-cased, padded with X when shorter.
func CategoryCode(category string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(category) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

// MintUseCaseID returns the next free id for a category. The counter is
// one past the maximum observed across the loaded records and the
// filenames under the given directories, typically the category's source
// and Markdown folders. Scanning filenames keeps ids reserved even when
// the record itself no longer parses. Files that do not match the scheme
// are skipped.
func MintUseCaseID(category string, existing []*types.UseCase, dirs ...string) string {
	code := CategoryCode(category)
	category = types.NormalizeCategory(category)

	max := 0
	inUse := make(map[string]bool, len(existing))
	for _, uc := range existing {
		inUse[uc.ID] = true
		if !strings.EqualFold(uc.Category, category) {
			continue
		}
		if p, err := Parse(uc.ID); err == nil && p.CategoryCode == code {
			if p.Number > max {
				max = p.Number
			}
		}
	}

	for _, dir := range dirs {
		if n := maxNumberInDir(dir, code); n > max {
			max = n
		}
	}

	for n := max + 1; ; n++ {
		id := fmt.Sprintf("UC-%s-%03d", code, n)
		if !inUse[id] {
			return id
		}
	}
}

// maxNumberInDir scans a directory for filenames beginning with an id of
// the given category code and returns the highest number observed.
// A missing directory yields zero.
func maxNumberInDir(dir, code string) int {
	if dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	prefix := "UC-" + code + "-"
	max := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || len(name) < len(prefix)+3 {
			continue
		}
		n, err := strconv.Atoi(name[len(prefix) : len(prefix)+3])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// MintScenarioID returns the next scenario id for a use case: one past the
// highest suffix currently attached. A suffix below the highest stays
// retired after a delete; deleting the highest-numbered scenario frees its
// suffix for the next mint.
func MintScenarioID(uc *types.UseCase) string {
	max := 0
	for _, s := range uc.Scenarios {
		m := scenarioIDRe.FindStringSubmatch(s.ID)
		if m == nil || !strings.EqualFold(m[1], uc.ID) {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-S%02d", uc.ID, max+1)
}
