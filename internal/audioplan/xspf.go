package audioplan

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// xspf mirrors the XML Shareable Playlist Format document structure.
type xspf struct {
	XMLName   xml.Name      `xml:"playlist"`
	Title     string        `xml:"title"`
	TrackList xspfTrackList `xml:"trackList"`
}

type xspfTrackList struct {
	Tracks []xspfTrack `xml:"track"`
}

type xspfTrack struct {
	Location string `xml:"location"`
	Title    string `xml:"title"`
}

// ParseXSPF reads an XSPF playlist and returns the track paths in playlist
// order. file:// locations are URL-decoded and relative locations resolve
// against the playlist's directory. Tracks that do not exist on disk are an
// error, since the planner needs to probe every file.
func ParseXSPF(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	var doc xspf
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse playlist %s: %w", path, err)
	}
	if len(doc.TrackList.Tracks) == 0 {
		return nil, fmt.Errorf("playlist %s contains no tracks", path)
	}

	baseDir := filepath.Dir(path)
	tracks := make([]string, 0, len(doc.TrackList.Tracks))
	for i, track := range doc.TrackList.Tracks {
		location := strings.TrimSpace(track.Location)
		if location == "" {
			return nil, fmt.Errorf("playlist %s: track %d has no location", path, i+1)
		}
		resolved, err := resolveLocation(location, baseDir)
		if err != nil {
			return nil, fmt.Errorf("playlist %s: track %d: %w", path, i+1, err)
		}
		if _, err := os.Stat(resolved); err != nil {
			return nil, fmt.Errorf("playlist %s: track %s: %w", path, resolved, err)
		}
		tracks = append(tracks, resolved)
	}
	return tracks, nil
}

func resolveLocation(location, baseDir string) (string, error) {
	if strings.HasPrefix(location, "file://") {
		parsed, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("parse location %q: %w", location, err)
		}
		decoded := parsed.Path
		if decoded == "" {
			return "", fmt.Errorf("location %q has no path", location)
		}
		return decoded, nil
	}
	if filepath.IsAbs(location) {
		return location, nil
	}
	decoded, err := url.PathUnescape(location)
	if err != nil {
		decoded = location
	}
	return filepath.Join(baseDir, decoded), nil
}
