package entities

import "fmt"

// ReceiveEmbedPreview lands an oEmbed preview payload for a URL. The preview
// cache is LRU-bounded; evicted entries read back as "not yet fetched".
func (s *Store) ReceiveEmbedPreview(url string, preview Record) {
	s.previews.Add(url, preview.Clone())
}

// GetEmbedPreview returns the cached preview for a URL, nil when none landed.
func (s *Store) GetEmbedPreview(url string) Record {
	preview, ok := s.previews.Get(url)
	if !ok {
		return nil
	}
	return preview
}

// IsPreviewEmbedFallback reports whether the cached preview is the trivial
// link-only markup the embed endpoint returns when it cannot render a URL.
func (s *Store) IsPreviewEmbedFallback(url string) bool {
	preview := s.GetEmbedPreview(url)
	if preview == nil {
		return false
	}
	html, ok := preview["html"].(string)
	if !ok {
		return false
	}
	return html == fmt.Sprintf("<a href=%q>%s</a>", url, url)
}
