package remap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackremap/internal/table"
)

func mustTable(t *testing.T, cols []string, rows ...[]string) *table.Table {
	t.Helper()
	tb, err := table.New(cols, rows)
	require.NoError(t, err)
	return tb
}

func catalogInput(t *testing.T) *table.Table {
	t.Helper()
	return mustTable(t,
		[]string{
			"Genre", "Track ID", "Title", "Artist", "Album", "Extra", "mp3_url",
			"Tag category: Mood/feel", "Tag category: Lyric themes", "Duration", "BPM",
			"Tag category: Instruments",
		},
		[]string{"Soul", "101", " Song, One ", "G Putnam", "LP", "junk", "http://x/1.mp3", "Happy", "love", "3:21", "0120", "piano"},
		[]string{"", "102", "Two\n\"quoted\"", "", "", "", "", "", "", "", "", ""},
	)
}

func TestApply_CatalogStrict(t *testing.T) {
	t.Parallel()

	in := catalogInput(t)
	out, res, err := Apply(in, CatalogSpec(Strict))
	require.NoError(t, err)

	assert.Equal(t, []string(CatalogColumns), out.Columns)
	assert.Equal(t, in.Len(), out.Len())
	assert.Equal(t, 2, res.RowsIn)
	assert.Equal(t, 2, res.RowsOut)
	assert.Empty(t, res.Skipped)
	assert.ElementsMatch(t, []string{"Extra", "Tag category: Instruments"}, res.Dropped)
	assert.Len(t, res.Renamed, 10)

	assert.Equal(t,
		[]string{"101", " Song, One ", "G Putnam", "LP", "http://x/1.mp3", "Happy", "love", "3:21", "0120", "Soul"},
		out.Rows[0])
	assert.Equal(t,
		[]string{"102", "Two\n\"quoted\"", "", "", "", "", "", "", "", ""},
		out.Rows[1])
}

func TestApply_PreservesCellsByteForByte(t *testing.T) {
	t.Parallel()

	in := catalogInput(t)
	out, _, err := Apply(in, CatalogSpec(Strict))
	require.NoError(t, err)

	for r := range in.Rows {
		src := in.Row(r)
		dst := out.Row(r)
		for from, to := range CatalogRename {
			want, ok := src.Get(from)
			require.True(t, ok)
			got, ok := dst.Get(to)
			require.True(t, ok)
			assert.Equal(t, want, got, "row %d %s", r, to)
		}
	}
}

func TestApply_ShortHeaderExample(t *testing.T) {
	t.Parallel()

	in := mustTable(t, []string{"Track ID", "Title", "mp3_url"}, []string{"1", "Song", "http://x"})

	_, _, err := Apply(in, CatalogSpec(Strict))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"artist", "album", "moods", "keywords", "duration", "bpm", "genre"}, mce.Missing)
	assert.Contains(t, err.Error(), "artist")

	out, res, err := Apply(in, CatalogSpec(Tolerant))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title", "url"}, out.Columns)
	assert.Equal(t, [][]string{{"1", "Song", "http://x"}}, out.Rows)
	assert.Equal(t, []string{"artist", "album", "moods", "keywords", "duration", "bpm", "genre"}, res.Skipped)
}

func TestApply_TolerantIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []*table.Table{
		catalogInput(t),
		mustTable(t, []string{"Track ID", "Title", "mp3_url", "x"}, []string{"1", "Song", "http://x", "y"}),
	} {
		first, _, err := Apply(in, CatalogSpec(Tolerant))
		require.NoError(t, err)
		second, res, err := Apply(first, CatalogSpec(Tolerant))
		require.NoError(t, err)

		assert.Equal(t, first.Columns, second.Columns)
		assert.Equal(t, first.Rows, second.Rows)
		assert.Equal(t, first.Fingerprint(), second.Fingerprint())
		assert.Empty(t, res.Renamed)
		assert.Empty(t, res.Dropped)
	}
}

func TestApply_StrictRerunOnOwnOutput(t *testing.T) {
	t.Parallel()

	first, _, err := Apply(catalogInput(t), CatalogSpec(Strict))
	require.NoError(t, err)
	second, _, err := Apply(first, CatalogSpec(Strict))
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestApply_NoRows(t *testing.T) {
	t.Parallel()

	in := mustTable(t, []string{"Track ID", "Title", "Artist", "Album", "mp3_url",
		"Tag category: Mood/feel", "Tag category: Lyric themes", "Duration", "BPM", "Genre"})
	out, res, err := Apply(in, CatalogSpec(Strict))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, []string(CatalogColumns), out.Columns)
	assert.Equal(t, 0, res.RowsOut)
}

func TestRename_UnmatchedKeepName(t *testing.T) {
	t.Parallel()

	in := mustTable(t, []string{"Title", "Other"}, []string{"a", "b"})
	out, pairs := Rename(in, CatalogRename, MatchExact)
	assert.Equal(t, []string{"title", "Other"}, out.Columns)
	assert.Equal(t, []string{"Title -> title"}, pairs)
	assert.Equal(t, []string{"Title", "Other"}, in.Columns, "input header must not change")
}

func TestRename_Fold(t *testing.T) {
	t.Parallel()

	in := mustTable(t, []string{" TRACK id", "Tag category: Mood/Feel", "Génre"}, []string{"1", "Happy", "Soul"})

	exact, _ := Rename(in, CatalogRename, MatchExact)
	assert.Equal(t, []string{" TRACK id", "Tag category: Mood/Feel", "Génre"}, exact.Columns)

	folded, pairs := Rename(in, CatalogRename, MatchFold)
	assert.Equal(t, []string{"id", "moods", "genre"}, folded.Columns)
	assert.Len(t, pairs, 3)
}

func TestProject_DuplicateAfterRenameTakesFirst(t *testing.T) {
	t.Parallel()

	in := mustTable(t, []string{"title", "Title"}, []string{"lower", "upper"})
	renamed, _ := Rename(in, CatalogRename, MatchExact)
	out, _, err := Project(renamed, Projection{"title"}, Strict)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"lower"}}, out.Rows)
}

func TestParseModeAndMatch(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Mode{"": Strict, "STRICT": Strict, "tolerant": Tolerant, "defensive": Tolerant} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("lenient")
	assert.Error(t, err)

	m, err := ParseMatch("Fold")
	require.NoError(t, err)
	assert.Equal(t, MatchFold, m)
	assert.Equal(t, "fold", m.String())
	_, err = ParseMatch("regex")
	assert.Error(t, err)
}

func TestSpecValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    Spec
		wantErr string
	}{
		{name: "catalog", spec: CatalogSpec(Strict)},
		{name: "empty projection", spec: Spec{}, wantErr: "projection is empty"},
		{name: "duplicate", spec: Spec{Columns: Projection{"id", "id"}}, wantErr: "twice"},
		{name: "blank column", spec: Spec{Columns: Projection{"id", ""}}, wantErr: "projection[1]"},
		{name: "blank rename", spec: Spec{Columns: Projection{"id"}, Rename: RenameMap{"x": ""}}, wantErr: "empty side"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.spec.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCatalogSpec_ReturnsCopies(t *testing.T) {
	t.Parallel()

	s := CatalogSpec(Strict)
	s.Rename["Title"] = "name"
	s.Columns[0] = "track_id"
	assert.Equal(t, "title", CatalogRename["Title"])
	assert.Equal(t, "id", CatalogColumns[0])
}

func TestPlanFor(t *testing.T) {
	t.Parallel()

	p := PlanFor([]string{"Track ID", "Title", "mp3_url", "Label"}, CatalogSpec(Strict))
	assert.Equal(t, []string{"id", "title", "url"}, p.Kept)
	assert.Equal(t, []string{"Label"}, p.Dropped)
	assert.Equal(t, []string{"artist", "album", "moods", "keywords", "duration", "bpm", "genre"}, p.Missing)
	assert.False(t, p.OK())

	p.Mode = Tolerant
	assert.True(t, p.OK())
}

func TestFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tag category: mood/feel", Fold("  Tag Category: Mood/Feel "))
	assert.Equal(t, "genre", Fold("Génre"))
	assert.Equal(t, "bpm", Fold("BPM"))
}
