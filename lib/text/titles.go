package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lexica-nlp/entity-recognition/lib/entity"
)

// NonAcademicTitles are honorific and official titles stripped from the
// front of person entities. Order matters: the first matching title wins.
var NonAcademicTitles = []string{
	// Government/political titles
	"Presiden", "Wakil Presiden", "Menteri", "Gubernur", "Wakil Gubernur",
	"Bupati", "Wakil Bupati", "Walikota", "Wakil Walikota", "Sekretaris",
	"Ketua", "Wakil Ketua", "Direktur", "Jenderal", "Jendral", "Panglima",

	// Religious titles
	"Ustaz", "Ustadz", "Kyai", "Kiai",

	// Military/police ranks
	"Letnan", "Kapten", "Mayor", "Kolonel", "Laksamana", "Komisaris",
	"Inspektur", "Brigadir",

	// Business titles
	"CEO", "CFO", "COO", "CTO", "Manajer", "Manager", "Direktur",
}

// AcademicTitles are preserved on person entities.
var AcademicTitles = []string{
	"Dr", "Prof", "Ir", "Drs", "Drg", "M.Sc", "M.Si", "M.A", "M.M", "M.Kom", "Ph.D",
	"S.T", "S.Kom", "S.E", "S.Sos", "S.H", "S.Pd", "S.I.P", "S.Ag", "S.IP",
}

var academicSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(AcademicTitles))
	for _, t := range AcademicTitles {
		m[strings.ToLower(t)] = struct{}{}
	}
	return m
}()

// StripTitle removes a leading non-academic title from a person entity,
// together with a geographic or organisational qualifier when one follows
// the title ("Gubernur Jawa Barat Ridwan Kamil" -> "Ridwan Kamil").
// Entities that are not PER typed pass through unchanged. Not guaranteed
// idempotent: a stripped name that itself starts with a title word will be
// stripped further on a second application.
func StripTitle(e entity.Entity) entity.Entity {
	if e.Type != entity.TypePerson {
		return e
	}

	for _, title := range NonAcademicTitles {
		if !hasTitlePrefix(e.Text, title) {
			continue
		}
		if _, academic := academicSet[strings.ToLower(title)]; academic {
			continue
		}

		// cut tracks how many bytes are removed from the front so the
		// start offset stays exact even when the name recurs earlier
		// in the source text.
		cut := len(title) + 1
		rest := strings.TrimSpace(e.Text[cut:])
		words := strings.Fields(rest)

		// With three or more trailing words, two uppercase-initial
		// words after the title are taken as a qualifier such as
		// "Jawa Barat" and removed along with it.
		if len(words) >= 3 && startsUpper(words[0]) && startsUpper(words[1]) {
			cut += len(words[0]) + 1 + len(words[1]) + 1
		}
		for cut < len(e.Text) && e.Text[cut] == ' ' {
			cut++
		}

		e.StartPos += cut
		e.Text = strings.TrimSpace(e.Text[cut:])
		break
	}

	return e
}

// hasTitlePrefix reports whether s starts with the title word followed by
// whitespace, ignoring case.
func hasTitlePrefix(s, title string) bool {
	if len(s) <= len(title)+1 {
		return false
	}
	if !strings.EqualFold(s[:len(title)], title) {
		return false
	}
	return s[len(title)] == ' ' || s[len(title)] == '\t'
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
