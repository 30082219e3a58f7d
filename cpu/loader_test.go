package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	text := []string{
		"# print8.ls8: Print the number 8 on the screen",
		"",
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"   01000111   # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	prog, err := Load(strings.NewReader(strings.Join(text, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]byte{0x82, 0, 8, 0x47, 0, 1}, prog.Binary())
	assert.Equal(3, prog.Lines[0].LineNo)
	assert.Equal(6, prog.Lines[3].LineNo)
	assert.Equal(3, prog.Lines[3].Addr)
}

func TestLoad_Empty(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load(strings.NewReader("# nothing\n\n"))
	assert.NoError(err)
	assert.Equal(0, len(prog.Binary()))
}

func TestLoad_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		text   string
		lineno int
	}){
		{"short", "10000010\n1000001\n", 2},
		{"long", "100000100\n", 1},
		{"digit", "# x\n10000012\n", 2},
		{"word", "LDI R0 8\n", 1},
	}

	for _, entry := range table {
		prog, err := Load(strings.NewReader(entry.text))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, ErrBinaryInvalid, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestLoad_TooLarge(t *testing.T) {
	assert := assert.New(t)

	text := strings.Repeat("00000001\n", MEMORY_SIZE+1)
	prog, err := Load(strings.NewReader(text))
	assert.Nil(prog)
	assert.ErrorIs(err, ErrProgramSize)

	text = strings.Repeat("00000001\n", MEMORY_SIZE)
	prog, err = Load(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(MEMORY_SIZE, len(prog.Binary()))
}
