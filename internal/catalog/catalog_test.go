package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/deck"
)

const sorCSV = `ID,Set,Number,Name,Type,Cost,Arenas,Power,HP,Keywords,Aspects,Subtype,BackInfo,TokenInfo
SOR_010,SOR,010,Darth Vader,Leader,6,Ground,5,8,,Aggression;Villainy,,Dark Lord of the Sith,
SOR_021,SOR,021,Dagobah Swamp,Base,0,,0,30,,Vigilance,,,
SOR_046,SOR,046,Clone Deserter,Unit,3,Ground,3,4,Sentinel; Restore 1,Command,Trooper,,
,SOR,172,Blaster Shot,Event,1,,0,0,,Aggression,,,
SOR_T01,SOR,T01,TIE Fighter,Token Unit,0,space,1,1,,,,,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader(sorCSV))
	require.NoError(t, err)
	require.Len(t, recs, 5)

	cat, err := Build(recs)
	require.NoError(t, err)

	deserter := cat["SOR_046"]
	require.NotNil(t, deserter)
	assert.Equal(t, cards.TypeUnit, deserter.Type)
	assert.Equal(t, 3, deserter.Attack)
	assert.Equal(t, 4, deserter.Health)
	assert.Equal(t, []string{"Sentinel", "Restore 1"}, deserter.Keywords)
	assert.Equal(t, []cards.Arena{cards.ArenaGround}, deserter.Arenas)
	assert.Equal(t, "Trooper", deserter.Subtype)

	shot, ok := cat["SOR_172"]
	require.True(t, ok, "rows without ID fall back to SET_NUMBER")
	assert.Equal(t, cards.TypeEvent, shot.Type)

	tie := cat["SOR_T01"]
	assert.Equal(t, cards.TypeToken, tie.Type)
	assert.Equal(t, []cards.Arena{cards.ArenaSpace}, tie.Arenas)
	assert.Equal(t, []string{"Aggression", "Villainy"}, cat["SOR_010"].Aspects)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("ID,Cost\nX,1\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader("Name,Type,Cost\nA,Unit,lots\n"))
	assert.ErrorContains(t, err, "cost")

	recs, err := ReadCSV(strings.NewReader("name,TYPE\nA,Spell\n"))
	require.NoError(t, err, "headers match case-insensitively")
	_, err = Build(recs)
	assert.ErrorContains(t, err, "unknown card type")
}

func TestLoaderMeldsFiles(t *testing.T) {
	csvPath := writeFile(t, "sor.csv", sorCSV)
	jsonPath := writeFile(t, "shd.json", `[
		{"id": "SHD_001", "set": "SHD", "number": "001", "name": "Bounty Hunter", "type": "Unit",
		 "cost": 2, "arenas": ["Ground"], "power": 2, "hp": 2, "keywords": ["Ambush"]}
	]`)

	cat, err := NewLoader(zaptest.NewLogger(t)).Load(context.Background(), csvPath, jsonPath)
	require.NoError(t, err)
	assert.Len(t, cat, 6)
	assert.Equal(t, []string{"Ambush"}, cat["SHD_001"].Keywords)

	_, err = NewLoader(nil).Load(context.Background(), csvPath, csvPath)
	assert.ErrorIs(t, err, ErrDuplicateCard)

	_, err = NewLoader(nil).Load(context.Background(), writeFile(t, "cards.txt", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseDecklist(t *testing.T) {
	list, err := ParseDecklist(strings.NewReader(`
# leader and base
SOR_010,1
SOR_021, 1

SOR_046,2
SOR_046,1
`))
	require.NoError(t, err)
	assert.Equal(t, deck.Decklist{"SOR_010": 1, "SOR_021": 1, "SOR_046": 3}, list)

	for _, bad := range []string{"SOR_010", "SOR_010,1,2", "SOR_010,x", ",2", "SOR_010,0"} {
		_, err := ParseDecklist(strings.NewReader(bad))
		assert.ErrorIs(t, err, ErrBadDecklist, bad)
	}
}

func TestLoadDeck(t *testing.T) {
	cat := deck.Catalog{
		"L": {ID: "L", Name: "Leader", Type: cards.TypeLeader},
		"B": {ID: "B", Name: "Base", Type: cards.TypeBase, Health: 30},
	}
	var sb strings.Builder
	sb.WriteString("L,1\nB,1\n")
	for i := 0; i < 17; i++ {
		id := fmt.Sprintf("U%02d", i)
		cat[id] = &cards.Template{ID: id, Name: "Unit " + id, Type: cards.TypeUnit, Cost: 1, Attack: 1, Health: 1}
		fmt.Fprintf(&sb, "%s,3\n", id)
	}

	d, err := LoadDeck(cat, writeFile(t, "deck.txt", sb.String()))
	require.NoError(t, err)
	assert.Len(t, d.Main, 51)
	assert.Equal(t, "Leader", d.Leader().Name)

	_, err = LoadDeck(cat, writeFile(t, "short.txt", "L,1\nB,1\nU00,3\n"))
	assert.ErrorIs(t, err, deck.ErrDeckSize)
}
