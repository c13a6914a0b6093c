package model

import (
	"encoding/json"
	"fmt"
)

// FindingKind identifies which observation a Finding records.
// Later stages (scoring, risk classification) match on the kind, never on
// the rendered text.
type FindingKind int

const (
	// KindUnknown is the zero value and never produced by an extractor.
	KindUnknown FindingKind = iota
	// KindUnreachable records that the main page could not be fetched.
	KindUnreachable
	// KindStatus records the main page HTTP status code.
	KindStatus
	// KindRedirect records that the resolved URL differs from the base URL.
	KindRedirect
	// KindAntiBotServer records a Server header naming a known CDN/WAF vendor.
	KindAntiBotServer
	// KindJSChallenge records a JavaScript challenge or captcha marker in the body.
	KindJSChallenge
	// KindMetaRobots records the content of <meta name="robots">.
	KindMetaRobots
	// KindXRobotsTag records the X-Robots-Tag response header.
	KindXRobotsTag
	// KindTermsOfService records a terms of service / terms of use mention.
	KindTermsOfService
	// KindCopyright records a copyright notice.
	KindCopyright
	// KindPrivacyPhone records phone-number shaped digit runs.
	KindPrivacyPhone
	// KindPrivacyEmail records email shaped tokens.
	KindPrivacyEmail
	// KindPrivacyNationalID records 15 to 18 digit national-ID shaped numbers.
	KindPrivacyNationalID
	// KindRobotsFound records that robots.txt was fetched and parsed.
	KindRobotsFound
	// KindRobotsUnreachable records a robots.txt network failure or non-200 status.
	KindRobotsUnreachable
	// KindRobotsParseFailed records a robots.txt body rejected by the grammar check.
	KindRobotsParseFailed
	// KindRobotsNoRules records that no group matched the agent or the wildcard.
	KindRobotsNoRules
	// KindRobotsDisallow records one Disallow path of the selected group.
	KindRobotsDisallow
	// KindRobotsNoDisallow records that the selected group has no Disallow path.
	KindRobotsNoDisallow
	// KindRobotsAllow records one Allow path of the selected group.
	KindRobotsAllow
	// KindRobotsPathAllowed records that the requested path may be crawled.
	KindRobotsPathAllowed
	// KindRobotsPathBlocked records that the requested path is excluded.
	KindRobotsPathBlocked
	// KindAPIEndpoint records a probe path that answered 200, 401 or 403.
	KindAPIEndpoint
	// KindNoAPIEndpoints records that no probe path answered.
	KindNoAPIEndpoints
)

// Glyph is the severity marker prefixed to a rendered finding.
type Glyph string

const (
	// GlyphInfo marks neutral information.
	GlyphInfo Glyph = "ℹ️"
	// GlyphOK marks a permissive observation.
	GlyphOK Glyph = "✅"
	// GlyphWarn marks a restrictive or risky observation.
	GlyphWarn Glyph = "⚠️"
	// GlyphBlock marks an observation that blocks crawling.
	GlyphBlock Glyph = "🚫"
)

// kindInfo is the static metadata of a finding kind.
type kindInfo struct {
	name  string
	glyph Glyph
	// level is the score contribution; zero means none.
	level Level
}

// kindInfoMapping is the single source of truth for kind names, glyphs and
// score contributions. KindStatus is special-cased in Finding.Contribution.
var kindInfoMapping = map[FindingKind]kindInfo{
	KindUnreachable:       {name: "unreachable", glyph: GlyphBlock, level: LevelBlocked},
	KindStatus:            {name: "status", glyph: GlyphInfo},
	KindRedirect:          {name: "redirect", glyph: GlyphWarn, level: LevelPartial},
	KindAntiBotServer:     {name: "anti_bot_server", glyph: GlyphWarn, level: LevelPartial},
	KindJSChallenge:       {name: "js_challenge", glyph: GlyphBlock, level: LevelBlocked},
	KindMetaRobots:        {name: "meta_robots", glyph: GlyphInfo},
	KindXRobotsTag:        {name: "x_robots_tag", glyph: GlyphInfo},
	KindTermsOfService:    {name: "terms_of_service", glyph: GlyphWarn},
	KindCopyright:         {name: "copyright", glyph: GlyphWarn},
	KindPrivacyPhone:      {name: "privacy_phone", glyph: GlyphWarn},
	KindPrivacyEmail:      {name: "privacy_email", glyph: GlyphWarn},
	KindPrivacyNationalID: {name: "privacy_national_id", glyph: GlyphWarn},
	KindRobotsFound:       {name: "robots_found", glyph: GlyphOK},
	KindRobotsUnreachable: {name: "robots_unreachable", glyph: GlyphWarn, level: LevelPartial},
	KindRobotsParseFailed: {name: "robots_parse_failed", glyph: GlyphWarn, level: LevelPartial},
	KindRobotsNoRules:     {name: "robots_no_rules", glyph: GlyphInfo},
	KindRobotsDisallow:    {name: "robots_disallow", glyph: GlyphBlock, level: LevelPartial},
	KindRobotsNoDisallow:  {name: "robots_no_disallow", glyph: GlyphOK},
	KindRobotsAllow:       {name: "robots_allow", glyph: GlyphOK},
	KindRobotsPathAllowed: {name: "robots_path_allowed", glyph: GlyphOK},
	KindRobotsPathBlocked: {name: "robots_path_blocked", glyph: GlyphInfo},
	KindAPIEndpoint:       {name: "api_endpoint", glyph: GlyphWarn, level: LevelPartial},
	KindNoAPIEndpoints:    {name: "no_api_endpoints", glyph: GlyphOK},
}

// String returns the stable snake_case name of the kind.
func (k FindingKind) String() string {
	if info, ok := kindInfoMapping[k]; ok {
		return info.name
	}
	return "unknown"
}

// MarshalText encodes the kind as its name.
func (k FindingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *FindingKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFindingKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseFindingKind returns the kind with the given name.
func ParseFindingKind(name string) (FindingKind, error) {
	for kind, info := range kindInfoMapping {
		if info.name == name {
			return kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown finding kind %q", name)
}

// Finding is one observation produced by exactly one extractor.
// The payload fields used depend on Kind; unused fields stay zero.
type Finding struct {
	// Kind identifies the observation.
	Kind FindingKind

	// Value carries textual payload: a header value, marker, path or agent.
	Value string

	// URL carries a resolved URL (redirect target, probed endpoint).
	URL string

	// Status carries an HTTP status code.
	Status int

	// Count carries the number of matches for pattern detectors.
	Count int
}

// Glyph returns the severity marker of the finding.
func (f Finding) Glyph() Glyph {
	if f.Kind == KindStatus && f.Status != 200 {
		return GlyphWarn
	}
	if info, ok := kindInfoMapping[f.Kind]; ok {
		return info.glyph
	}
	return GlyphInfo
}

// Contribution returns the level this finding pushes the assessment to.
// Findings without a score effect return LevelAllowed, the identity of Join.
func (f Finding) Contribution() Level {
	if f.Kind == KindStatus {
		if f.Status != 200 {
			return LevelPartial
		}
		return LevelAllowed
	}
	if info, ok := kindInfoMapping[f.Kind]; ok && info.level != 0 {
		return info.level
	}
	return LevelAllowed
}

// Text renders the finding as a human-readable line.
// The rendered text is for presentation only.
func (f Finding) Text() string {
	return string(f.Glyph()) + " " + f.message()
}

// message renders the finding without the glyph.
func (f Finding) message() string {
	switch f.Kind {
	case KindUnreachable:
		return "Site unreachable: " + f.URL
	case KindStatus:
		return fmt.Sprintf("HTTP status code: %d", f.Status)
	case KindRedirect:
		return "Redirect detected: " + f.URL
	case KindAntiBotServer:
		return "Anti-bot protection detected (Server: " + f.Value + ")"
	case KindJSChallenge:
		return "JavaScript challenge detected (" + f.Value + ")"
	case KindMetaRobots:
		return "Meta robots: " + f.Value
	case KindXRobotsTag:
		return "X-Robots-Tag: " + f.Value
	case KindTermsOfService:
		return "Terms of Service found"
	case KindCopyright:
		return "Copyright notice found"
	case KindPrivacyPhone:
		return fmt.Sprintf("Possible phone numbers found (%d)", f.Count)
	case KindPrivacyEmail:
		return fmt.Sprintf("Possible email addresses found (%d)", f.Count)
	case KindPrivacyNationalID:
		return fmt.Sprintf("Possible ID numbers found (%d)", f.Count)
	case KindRobotsFound:
		return "robots.txt found and parsed (user-agent: " + f.Value + ")"
	case KindRobotsUnreachable:
		if f.Status > 0 {
			return fmt.Sprintf("robots.txt unreachable (status %d)", f.Status)
		}
		return "robots.txt unreachable"
	case KindRobotsParseFailed:
		return "robots.txt could not be parsed: " + f.Value
	case KindRobotsNoRules:
		return "No robots.txt rules found for user-agent " + f.Value
	case KindRobotsDisallow:
		return "Disallowed path: " + robotsPath(f.Value)
	case KindRobotsNoDisallow:
		return "No disallowed paths"
	case KindRobotsAllow:
		return "Allowed path: " + robotsPath(f.Value)
	case KindRobotsPathAllowed:
		return "Requested path " + robotsPath(f.Value) + " may be crawled"
	case KindRobotsPathBlocked:
		return "Requested path " + robotsPath(f.Value) + " is excluded by robots.txt"
	case KindAPIEndpoint:
		return fmt.Sprintf("API endpoint found: %s (status %d)", f.URL, f.Status)
	case KindNoAPIEndpoints:
		return "No common API paths found"
	default:
		return f.Value
	}
}

// robotsPath renders an empty robots path as "/".
func robotsPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// findingJSON is the wire shape of a Finding.
type findingJSON struct {
	Kind   FindingKind `json:"kind"`
	Text   string      `json:"text"`
	Value  string      `json:"value,omitempty"`
	URL    string      `json:"url,omitempty"`
	Status int         `json:"status,omitempty"`
	Count  int         `json:"count,omitempty"`
}

// MarshalJSON includes the derived text next to the structured payload.
func (f Finding) MarshalJSON() ([]byte, error) {
	return json.Marshal(findingJSON{
		Kind:   f.Kind,
		Text:   f.Text(),
		Value:  f.Value,
		URL:    f.URL,
		Status: f.Status,
		Count:  f.Count,
	})
}

// UnmarshalJSON restores the structured payload; the text is re-derived.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var raw findingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Finding{
		Kind:   raw.Kind,
		Value:  raw.Value,
		URL:    raw.URL,
		Status: raw.Status,
		Count:  raw.Count,
	}
	return nil
}
