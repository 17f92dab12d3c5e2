package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eridehero/eridehero/internal/domain/user"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	nonWordPattern  = regexp.MustCompile(`[^A-Za-z0-9_]+`)
)

// UsernameDeriver produces a unique login from whatever identity material
// an OAuth provider hands us.
type UsernameDeriver struct {
	userRepo user.Repository
}

func NewUsernameDeriver(userRepo user.Repository) *UsernameDeriver {
	return &UsernameDeriver{userRepo: userRepo}
}

// Derive picks the first usable candidate: the provider username when it is
// already clean, then the display name with diacritics folded away, then the
// email local part. A numeric suffix disambiguates collisions.
func (d *UsernameDeriver) Derive(ctx context.Context, providerUsername, displayName, email string) (string, error) {
	base := ""

	switch {
	case providerUsername != "" && usernamePattern.MatchString(providerUsername):
		base = providerUsername
	case displayName != "":
		base = sanitizeUsername(displayName)
	}

	if base == "" && email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			base = sanitizeUsername(email[:at])
		}
	}
	if base == "" {
		base = "rider"
	}
	if len(base) > 40 {
		base = base[:40]
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		taken, err := d.userRepo.ExistsByLogin(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, suffix)
	}
}

// sanitizeUsername folds a display name down to the login charset:
// decompose, drop combining marks, then strip whatever is left over.
func sanitizeUsername(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, input)
	if err != nil {
		folded = input
	}
	return nonWordPattern.ReplaceAllString(folded, "")
}
