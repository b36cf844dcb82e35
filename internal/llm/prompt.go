package llm

import (
	"fmt"
	"strings"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

// BuildPrompt asks for exactly three destinations in the format LineParser reads.
func BuildPrompt(p domain.Preference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommend exactly 3 destinations for a %d-day trip.\n", p.Duration())
	fmt.Fprintf(&b, "Preferred climate: %s; budget: $%d; interests: %s.\n",
		p.Climate(), p.Budget(), strings.Join(p.InterestStrings(), ", "))
	b.WriteString("Return each destination on its own line in the format:\n")
	b.WriteString("1. <Name> – <Short description>. Why: <reason>\n")
	return b.String()
}
