package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"candidate-portal/internal/domain"

	"github.com/gin-gonic/gin"
)

// maxDraftCookieBytes keeps the encoded cookie under browser limits.
const maxDraftCookieBytes = 3800

// draftCookie is the browser copy of a section draft. SavedAt lets a section
// saved later through another client win over the copy.
type draftCookie struct {
	Fields  map[string][]string `json:"f"`
	SavedAt time.Time           `json:"t"`
}

func draftCookieName(key domain.SectionKey) string {
	return string(key) + "_data"
}

// writeDraftCookie mirrors the draft into the browser. Drafts too large for a
// cookie live in the draft store only.
func writeDraftCookie(c *gin.Context, key domain.SectionKey, fields map[string][]string, savedAt time.Time, ttl time.Duration, secure bool) {
	raw, err := json.Marshal(draftCookie{Fields: fields, SavedAt: savedAt.UTC()})
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	if len(encoded) > maxDraftCookieBytes {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(draftCookieName(key), encoded, int(ttl.Seconds()), domain.RouteProfile, "", secure, true)
}

func readDraftCookie(c *gin.Context, key domain.SectionKey) (draftCookie, bool) {
	var draft draftCookie
	encoded, err := c.Cookie(draftCookieName(key))
	if err != nil || encoded == "" {
		return draft, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return draft, false
	}
	if err := json.Unmarshal(raw, &draft); err != nil || draft.Fields == nil {
		return draft, false
	}
	return draft, true
}

// staleFor reports whether rec was saved after the draft was written.
func (d draftCookie) staleFor(rec *domain.SectionRecord) bool {
	return rec != nil && rec.UpdatedAt.After(d.SavedAt)
}

func clearDraftCookie(c *gin.Context, key domain.SectionKey, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(draftCookieName(key), "", -1, domain.RouteProfile, "", secure, true)
}
