package utils

import "regexp"

// Accepted license plate formats (digit groups separated by dashes).
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{3}-\d{2}-\d{3}$`),
	regexp.MustCompile(`^\d{3}-\d{3}-\d{3}$`),
	regexp.MustCompile(`^\d{2}-\d{3}-\d{2}$`),
}

func ValidateLicensePlate(plate string) bool {
	for _, p := range platePatterns {
		if p.MatchString(plate) {
			return true
		}
	}
	return false
}
