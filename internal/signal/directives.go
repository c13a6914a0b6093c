package signal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/crewguard/internal/model"
)

// DetectMetaRobots reports the content of the first <meta name="robots">
// tag. The name comparison is case-insensitive; the content is verbatim.
func DetectMetaRobots(body string) []model.Finding {
	doc := parseHTML(body)
	if doc == nil {
		return nil
	}

	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "robots") {
			return true
		}
		content, _ = s.Attr("content")
		return false
	})

	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	return []model.Finding{{Kind: model.KindMetaRobots, Value: content}}
}

// DetectXRobotsTag surfaces the X-Robots-Tag header value verbatim.
func DetectXRobotsTag(value string) []model.Finding {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []model.Finding{{Kind: model.KindXRobotsTag, Value: value}}
}
