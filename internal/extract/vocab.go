package extract

// Fixed fr-CA vocabularies used by the extractors. These are data, not
// logic: adapting the engine to another locale or medical domain means
// editing the tables below, never the extractor functions.

// Months lists the twelve French month names in calendar order. The
// position of a name (1-based) is its month number.
var Months = []string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// ConsultationVerbs lists the accepted verbs and verb phrases for a
// worker/physician encounter. Matching is case-sensitive.
var ConsultationVerbs = []string{
	"consulte",
	"rencontre",
	"revoit",
	"obtient un rendez-vous avec",
	"se présente chez",
}

// TitleTokens lists the physician honorifics, spelled-out and abbreviated.
var TitleTokens = []string{
	"le docteur", "la docteure", "Dr.", "Dre.",
}

// ImagingKeywords lists the imaging-modality terms that mark a paragraph
// as a radiology excerpt. Matching is case-insensitive.
var ImagingKeywords = []string{
	"radiographie", "IRM", "échographie", "scan", "arthro-IRM", "tomodensitométrie",
}

// SubjectOpenings lists the two phrases a narrative paragraph must open
// with: the male and female forms of "the worker".
var SubjectOpenings = []string{
	"Le travailleur", "La travailleuse",
}
