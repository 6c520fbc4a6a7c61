// Program to demonstrate normalization of the provider answer shapes seen in practice.
// Each sample is pushed through the same assembler the service uses, without any network call.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
)

type sample struct {
	name string
	raw  any
}

func main() {
	fmt.Println("=== Fact-check Normalization Samples ===")
	fmt.Println()

	samples := []sample{
		{"structured object", map[string]any{
			"claim":       "The Great Wall of China is visible from space.",
			"verdict":     "mostly_false",
			"confidence":  0.85,
			"explanation": "It is not visible to the naked eye from low Earth orbit.",
			"key_points":  []any{"Astronaut accounts contradict the claim"},
			"sources": []any{
				map[string]any{"title": "NASA", "url": "https://www.nasa.gov/great-wall", "reliability": 5},
			},
		}},
		{"fenced JSON string", "```json\n{\"tvrzeni\": \"Voda vře při 100 °C.\", \"verdikt\": \"Pravda\", \"skore\": \"92%\"}\n```"},
		{"free prose", "Claim: The moon landing was staged.\nVerdict: False\n\nNo credible evidence supports this. See [NASA](https://nasa.gov/apollo) and [Reuters](https://reuters.com/fact-check)."},
		{"satire", "This headline comes from a satirical site: SATIRE."},
		{"object without analysis", map[string]any{"status": "ok", "tokens": 512}},
		{"nothing", nil},
	}

	assembler := pipeline.NewAssembler(nil, nil)

	for _, s := range samples {
		fmt.Printf("Sample: %s\n", s.name)
		fmt.Println(strings.Repeat("-", 60))

		payload := extract.Sniff(s.raw)
		res := assembler.Assemble(pipeline.AssembleInput{Payload: payload})

		fmt.Printf("  Format:      %s\n", payload.Format())
		fmt.Printf("  Claim:       %s\n", res.ClaimText)
		fmt.Printf("  Verdict:     %s (%s)\n", res.Verdict.Label(), res.Verdict)
		if res.Verdict.ConfidenceMeaningful() {
			fmt.Printf("  Confidence:  %.0f%%\n", res.Confidence*100)
		} else {
			fmt.Printf("  Confidence:  n/a\n")
		}
		fmt.Printf("  Sources:     %d\n", len(res.Analysis.Sources))
		for _, src := range res.Analysis.Sources {
			fmt.Printf("    - %s <%s> %s\n", src.Title, src.URL, strings.Repeat("★", src.Stars()))
		}
		fmt.Println()

		if !res.Verdict.IsValid() || res.Verdict == model.VerdictError {
			fmt.Fprintf(os.Stderr, "unexpected verdict %q for sample %q\n", res.Verdict, s.name)
			os.Exit(1)
		}
	}

	fmt.Println("=== Done ===")
}
