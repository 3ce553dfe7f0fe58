// Package seed holds the compiled-in manuscript collection.
//
// Built-in entries exist for every session, are never written to the
// shelf, and cannot be deleted. Accessors return deep copies so callers
// cannot mutate the collection.
package seed

import "github.com/hazyhaar/arcana/book"

var builtins = []book.Entry{
	{
		ID:          "1",
		Title:       "The Kybalion",
		Author:      "Three Initiates",
		Year:        1908,
		Tags:        []string{"Hermeticism", "Metaphysics", "Alchemy"},
		Description: "A study of the hermetic philosophy of ancient Egypt and Greece, exploring seven universal principles.",
		CoverImage:  "https://picsum.photos/seed/kybalion/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "2",
		Title:       "Corpus Hermeticum",
		Author:      "Hermes Trismegistus",
		Year:        1471,
		Tags:        []string{"Hermeticism", "Gnosticism", "Philosophy"},
		Description: "A collection of 17 Greek writings whose authorship is traditionally attributed to the legendary Hellenistic figure Hermes Trismegistus.",
		CoverImage:  "https://picsum.photos/seed/corpus/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "3",
		Title:       "The Secret Teachings of All Ages",
		Author:      "Manly P. Hall",
		Year:        1928,
		Tags:        []string{"Occult", "Symbolism", "Philosophy"},
		Description: "An encyclopedic outline of Masonic, Hermetic, Qabbalistic and Rosicrucian symbolical philosophy.",
		CoverImage:  "https://picsum.photos/seed/secretteachings/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "4",
		Title:       "The Book of Thoth",
		Author:      "Aleister Crowley",
		Year:        1944,
		Tags:        []string{"Tarot", "Thelema", "Occult"},
		Description: "A deep dive into the philosophy and use of the Thoth Tarot, designed by Crowley and painted by Lady Frieda Harris.",
		CoverImage:  "https://picsum.photos/seed/thoth/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "5",
		Title:       "De Occulta Philosophia libri tres",
		Author:      "Heinrich Cornelius Agrippa",
		Year:        1533,
		Tags:        []string{"Occult", "Magic", "Renaissance"},
		Description: "A foundational work of Western esotericism, outlining the principles of magic divided into three books: Natural, Celestial, and Ceremonial.",
		CoverImage:  "https://picsum.photos/seed/agrippa/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "6",
		Title:       "The Zohar",
		Author:      "Moses de León",
		Year:        1290,
		Tags:        []string{"Kabbalah", "Mysticism", "Judaism"},
		Description: "The foundational work in the literature of Jewish mystical thought known as Kabbalah.",
		CoverImage:  "https://picsum.photos/seed/zohar/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "7",
		Title:       "The Emerald Tablet",
		Author:      "Hermes Trismegistus",
		Year:        800,
		Tags:        []string{"Alchemy", "Hermeticism"},
		Description: "A short, cryptic text of Hellenistic origin, esteemed by Islamic and European alchemists as the foundation of their art.",
		CoverImage:  "https://picsum.photos/seed/emerald/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "8",
		Title:       "Pistis Sophia",
		Author:      "Unknown",
		Year:        350,
		Tags:        []string{"Gnosticism", "Coptic"},
		Description: "An important Gnostic text which describes the fall and restoration of the soul, represented by the figure of Sophia.",
		CoverImage:  "https://picsum.photos/seed/pistis/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "9",
		Title:       "Liber Novus (The Red Book)",
		Author:      "Carl Jung",
		Year:        2009,
		Tags:        []string{"Psychology", "Symbolism", "Alchemy"},
		Description: "A manuscript by psychologist Carl Jung, documenting his visionary explorations of the unconscious from 1914 to 1930.",
		CoverImage:  "https://picsum.photos/seed/redbook/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "10",
		Title:       "Meditations on the Tarot",
		Author:      "Valentin Tomberg",
		Year:        1980,
		Tags:        []string{"Tarot", "Christian Hermeticism", "Mysticism"},
		Description: "A profound journey into Christian Hermeticism through the 22 Major Arcana of the Tarot.",
		CoverImage:  "https://picsum.photos/seed/meditations/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "11",
		Title:       "The Book of the Law",
		Author:      "Aleister Crowley",
		Year:        1904,
		Tags:        []string{"Thelema", "Occult"},
		Description: "The central sacred text of Thelema, supposedly dictated to Crowley by a praeterhuman intelligence named Aiwass.",
		CoverImage:  "https://picsum.photos/seed/law/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "12",
		Title:       "The Cloud Upon the Sanctuary",
		Author:      "Karl von Eckartshausen",
		Year:        1795,
		Tags:        []string{"Mysticism", "Rosicrucianism", "Christian Hermeticism"},
		Description: "A series of letters outlining the existence of an inner, invisible spiritual community guiding humanity.",
		CoverImage:  "https://picsum.photos/seed/cloud/400/600",
		FileURL:     book.NoFile,
	},
	{
		ID:          "13",
		Title:       "A History of Witchcraft in England from 1558 to 1718",
		Author:      "Wallace Notestein",
		Year:        1911,
		Tags:        []string{"History", "Witchcraft", "England"},
		Description: "A scholarly account of the rise and fall of witchcraft prosecutions in England during the early modern period, analyzing legal, social, and intellectual contexts.",
		CoverImage:  "https://picsum.photos/seed/witchcraft-history/400/600",
		FileURL:     book.NoFile,
		TextContent: witchcraftPreface,
	},
}

// Entries returns deep copies of the built-in collection.
func Entries() []*book.Entry {
	out := make([]*book.Entry, len(builtins))
	for i := range builtins {
		out[i] = builtins[i].Clone()
	}
	return out
}

// IsBuiltin reports whether id belongs to the compiled-in collection.
func IsBuiltin(id string) bool {
	for i := range builtins {
		if builtins[i].ID == id {
			return true
		}
	}
	return false
}

// Count returns the number of built-in entries.
func Count() int { return len(builtins) }

const witchcraftPreface = `PREFACE

This study of English witchcraft is an attempt to deal with the subject from the point of view of the historian of English thought and of English institutions. The professional student of English law and politics may find much in it which he considers as already well known; the specialist in folk-lore will discover what must seem to him an almost inexcusable neglect of his particular field. To the first I can only say that my book is not intended primarily for him; to the second I may plead that a distinct line has to be drawn between the history of witchcraft and the study of the magic arts. This is an historical study of the beliefs in witchcraft as held by the English people, and of the narration of the events which resulted from those beliefs.

It is a field that has been nearly deserted. The late Professor James Bradley Thayer, in his chapters on the jury and its development, touched upon the relation of witchcraft trials to the evolution of the rules of evidence, and that is nearly all that has been done from the standpoint of the historical student. Mr. F. W. Maitland has been over nearly all the original sources for the history of English law, but seems never to have examined the papers of the witchcraft trials. It would have been interesting to see what that master of English legal antiquities would have made out of a subject so filled with suggestion.

Witchcraft had its own literature. Not only were there formal treatises upon the subject, but there was a continuous output from the English press of pamphlets detailing the stories of the trials. It is upon these pamphlets, together with the assize records and the various classes of state papers, that this study has been based.`
