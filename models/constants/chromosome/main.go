package chromosome

import (
	"fmt"
	"strconv"
	"strings"
)

func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 23; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X")
	humChroms = append(humChroms, "Y")
	humChroms = append(humChroms, "M")
	return humChroms
}

// Clean strips a leading "chr" and normalizes
// sex and mitochondrial chromosome labels ("MT" -> "M")
func Clean(text string) string {
	cleaned := strings.TrimSpace(text)
	if len(cleaned) > 3 && strings.EqualFold(cleaned[:3], "chr") {
		cleaned = cleaned[3:]
	}
	cleaned = strings.ToUpper(cleaned)
	if cleaned == "MT" {
		cleaned = "M"
	}
	return cleaned
}

func IsValidHumanChromosome(text string) bool {
	_, err := Number(text)
	return err == nil
}

// Number returns the position of a chromosome in the global
// ordering used by x-coordinates: 1-22, then X=23, Y=24, M=25
func Number(text string) (int, error) {
	cleaned := Clean(text)

	// Check if number can be represented as an int and is in range 1-22
	if chromNumber, err := strconv.Atoi(cleaned); err == nil {
		if chromNumber > 0 && chromNumber < 23 {
			return chromNumber, nil
		}
		return 0, fmt.Errorf("chromosome %q out of range", text)
	}

	// ..it can't, check if it is an X, Y or M
	switch cleaned {
	case "X":
		return 23, nil
	case "Y":
		return 24, nil
	case "M":
		return 25, nil
	}

	return 0, fmt.Errorf("unknown chromosome %q", text)
}
