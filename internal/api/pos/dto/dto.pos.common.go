// Package posdto holds the create and patch bodies of the POS entities. Patch bodies use
// pointer fields: only fields present in the JSON are written.
package posdto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"go.mongodb.org/mongo-driver/bson"
)

// manualMeta stamps records created through the API.
func manualMeta() posmodels.MetaData {
	return posmodels.NewMetaData(posmodels.SourceManual, nil, time.Now())
}

// loyverseIDOrNew keeps a caller supplied id, otherwise generates one so the unique
// loyverse_id index still holds for local records.
func loyverseIDOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// patch collects the $set of a patch body.
type patch bson.M

func (p patch) str(key string, v *string) {
	if v != nil {
		p[key] = strings.TrimSpace(*v)
	}
}

// done stamps meta.last_modified_at when anything changed.
func (p patch) done() (bson.M, error) {
	if len(p) > 0 {
		p["meta.last_modified_at"] = time.Now().UTC()
	}
	return bson.M(p), nil
}
