package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func ProjectUUID(slug string) uuid.UUID {
	return UUID("dochost:project:" + strings.ToLower(strings.TrimSpace(slug)))
}

func VersionUUID(projectID uuid.UUID, slug string) uuid.UUID {
	return UUID("dochost:version:" + projectID.String() + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

func DomainUUID(hostname string) uuid.UUID {
	return UUID("dochost:domain:" + strings.ToLower(strings.TrimSpace(hostname)))
}

func PlanUUID(stripePriceID string) uuid.UUID {
	return UUID("dochost:plan:" + strings.TrimSpace(stripePriceID))
}
