// Package asset locates the media result inside a terminal job payload.
// Different API versions nest the output differently, so the locator runs
// an ordered list of typed probes over the document and short-circuits on
// the first match. A miss is a legitimate negative result, not an error;
// the tracker falls back to a binary content fetch.
package asset

// probe attempts one known payload shape and reports whether it matched.
type probe func(payload map[string]any) (string, bool)

// probes are tried in priority order.
var probes = []probe{
	fromAssetBundle,
	fromTopLevelURL,
	fromGenerations,
}

// LocateURL returns the video URL found in the payload, if any.
// It is pure: no mutation, no network, deterministic for a given payload.
func LocateURL(payload map[string]any) (string, bool) {
	for _, p := range probes {
		if url, ok := p(payload); ok {
			return url, true
		}
	}
	return "", false
}

// fromAssetBundle matches {"assets": {"video": "https://...mp4"}}.
func fromAssetBundle(payload map[string]any) (string, bool) {
	assets, ok := payload["assets"].(map[string]any)
	if !ok {
		return "", false
	}
	url, ok := assets["video"].(string)
	return url, ok
}

// fromTopLevelURL matches {"url": "https://...mp4"}.
func fromTopLevelURL(payload map[string]any) (string, bool) {
	url, ok := payload["url"].(string)
	return url, ok
}

// fromGenerations matches {"generations": [{"url": "https://...mp4"}, ...]}.
func fromGenerations(payload map[string]any) (string, bool) {
	gens, ok := payload["generations"].([]any)
	if !ok || len(gens) == 0 {
		return "", false
	}
	first, ok := gens[0].(map[string]any)
	if !ok {
		return "", false
	}
	url, ok := first["url"].(string)
	return url, ok
}
