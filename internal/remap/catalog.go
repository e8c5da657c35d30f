package remap

// CatalogRename maps the music catalog export headers to the import schema.
var CatalogRename = RenameMap{
	"Track ID":                   "id",
	"Title":                      "title",
	"Artist":                     "artist",
	"Album":                      "album",
	"mp3_url":                    "url",
	"Tag category: Mood/feel":    "moods",
	"Tag category: Lyric themes": "keywords",
	"Duration":                   "duration",
	"BPM":                        "bpm",
	"Genre":                      "genre",
}

// CatalogColumns is the import schema column order.
var CatalogColumns = Projection{
	"id", "title", "artist", "album", "url",
	"moods", "keywords", "duration", "bpm", "genre",
}

// CatalogSpec returns the catalog remap with the given mode and exact header
// matching. The returned maps are copies.
func CatalogSpec(mode Mode) Spec {
	rm := make(RenameMap, len(CatalogRename))
	for k, v := range CatalogRename {
		rm[k] = v
	}
	cols := make(Projection, len(CatalogColumns))
	copy(cols, CatalogColumns)
	return Spec{Rename: rm, Columns: cols, Mode: mode, Match: MatchExact}
}
