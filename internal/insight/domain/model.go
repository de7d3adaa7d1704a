package domain

import "time"

// InsightRecord is one stored natural-language summary for a product.
type InsightRecord struct {
	ProductID          int64     `json:"product_id" dynamodbav:"product_id"`
	AvgPredictedDemand int       `json:"avg_predicted_demand" dynamodbav:"avg_predicted_demand"`
	ModelUsed          string    `json:"model_used" dynamodbav:"model_used"`
	Summary            string    `json:"llm_summary" dynamodbav:"llm_summary"`
	CreatedAt          time.Time `json:"created_at" dynamodbav:"created_at"`
}
