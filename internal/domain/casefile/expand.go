package casefile

import "strings"

// Liver-condition abbreviations spelled out for display. Diagnoses arrive
// from the analysis model as short codes.
var diagnosisExpansions = map[string]string{
	"NAFLD": "NAFLD (Non-Alcoholic Fatty Liver Disease)",
	"NASH":  "NASH (Non-Alcoholic Steatohepatitis)",
	"ALD":   "ALD (Alcoholic Liver Disease)",
	"HCC":   "HCC (Hepatocellular Carcinoma)",
	"PBC":   "PBC (Primary Biliary Cholangitis)",
	"PSC":   "PSC (Primary Sclerosing Cholangitis)",
}

// ExpandDiagnosis maps a known abbreviation to its spelled-out form. The
// match is case-insensitive on the whole string; anything unrecognized is
// returned verbatim.
func ExpandDiagnosis(diagnosis string) string {
	if expanded, ok := diagnosisExpansions[strings.ToUpper(strings.TrimSpace(diagnosis))]; ok {
		return expanded
	}
	return diagnosis
}
