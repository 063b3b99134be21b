package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterDataNormalize(t *testing.T) {
	d := LetterData{
		Nama: "  Siti Aminah ",
		Isi:  "Baris satu\r\nBaris dua\rBaris tiga\n  indent ",
	}
	d.Normalize()

	assert.Equal(t, "Siti Aminah", d.Nama)
	assert.Equal(t, "Baris satu\nBaris dua\nBaris tiga\n  indent ", d.Isi)
}

func TestLetterDataValidate(t *testing.T) {
	t.Run("Empty letter is valid", func(t *testing.T) {
		d := LetterData{}
		assert.NoError(t, d.Validate())
	})

	t.Run("Valid fields", func(t *testing.T) {
		d := LetterData{NIK: "3273012345678901", TanggalSurat: "2026-10-16"}
		assert.NoError(t, d.Validate())
	})

	t.Run("Invalid fields are listed", func(t *testing.T) {
		d := LetterData{NIK: "12345", TanggalSurat: "16-10-2026"}
		err := d.Validate()
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "nik")
		assert.Contains(t, vErr.Fields, "tanggalSurat")
	})
}

func TestLetterDataHelpers(t *testing.T) {
	d := LetterData{Nama: "Budi  Santoso Putra"}
	assert.Equal(t, "Surat_Pernyataan_Budi_Santoso_Putra", d.FileName())
	assert.Equal(t, DefaultJudulSurat, d.Title())

	d.JudulSurat = "SURAT PERNYATAAN TIDAK MAMPU"
	assert.Equal(t, "SURAT PERNYATAAN TIDAK MAMPU", d.Title())

	assert.False(t, d.HasSignature())
	empty := ""
	d.SignatureURL = &empty
	assert.False(t, d.HasSignature())
	key := "assets/signature/a.png"
	d.SignatureURL = &key
	assert.True(t, d.HasSignature())
}
