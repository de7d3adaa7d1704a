package service

import "fmt"

const promptTemplate = `You are an inventory assistant.

Product ID: %d
Average daily demand: %d

Give:
- ONE short demand insight (max 20 words)
- ONE stock action (max 10 words)

Format:
Insight: <text>
Action: <text>
`

// BuildPrompt renders the insight prompt. Only the product id and the
// rounded average are exposed to the generator.
func BuildPrompt(productID int64, avgDemand int) string {
	return fmt.Sprintf(promptTemplate, productID, avgDemand)
}
