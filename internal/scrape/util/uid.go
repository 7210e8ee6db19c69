package util

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// JobUID builds the stable posting identifier, unique within one company.
// Refetching the same posting must yield the same uid so upserts work.
// Fallback order when the vendor assigns no id: hash of the job URL, then
// hash of the title alone. The URL wins over the title because titles get
// edited; URLs rarely do.
func JobUID(platform, vendorID, jobURL, title string) string {
	p := strings.ToLower(strings.TrimSpace(platform))

	if id := strings.TrimSpace(vendorID); id != "" {
		return p + "_" + id
	}
	if u := strings.TrimSpace(jobURL); u != "" {
		return p + "_" + HashString("url:"+u)
	}
	return p + "_" + HashString("title:"+CleanText(title))
}

func HashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
