// Package chatbot answers marketplace selling questions from a fixed,
// ordered rule table.
package chatbot

import "strings"

type Rule struct {
	Name     string
	Keywords []string
	Reply    string
}

func (r Rule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

const (
	ListingReply     = "To list a product, go to your dashboard and click 'Add Product'. Fill in the title, description, price, and select a category. Don't forget to add a good image!"
	PricingReply     = "When pricing your product, consider the condition, original cost, and market demand. Research similar items to set a competitive price. Remember, our community values fair pricing!"
	CategoriesReply  = "We support 5 main categories: Electronics, Fashion, Home, Books, and Other. Choose the category that best fits your product to help buyers find it easily."
	PhotosReply      = "Good photos are crucial for selling! Use natural lighting, show multiple angles, and make sure the item is clean and well-presented. Clear, high-quality images attract more buyers."
	DescriptionReply = "Write a detailed description including the item's condition, any flaws, dimensions, and why it's eco-friendly. Be honest and specific - buyers appreciate transparency!"
	HelpReply        = "I'm here to help with selling questions! You can ask me about listing products, pricing, categories, photos, descriptions, or any other selling-related topics."
	FallbackReply    = "I'm a customer service bot focused on helping with selling questions. Ask me about listing products, pricing, categories, or any other selling-related topics!"
)

// Rules is evaluated top to bottom; the first match wins.
var Rules = []Rule{
	{Name: "listing", Keywords: []string{"how to list", "how do i list", "how do i sell"}, Reply: ListingReply},
	{Name: "pricing", Keywords: []string{"price", "pricing"}, Reply: PricingReply},
	{Name: "categories", Keywords: []string{"category", "categories"}, Reply: CategoriesReply},
	{Name: "photos", Keywords: []string{"photo", "image", "picture"}, Reply: PhotosReply},
	{Name: "descriptions", Keywords: []string{"description", "describe"}, Reply: DescriptionReply},
	{Name: "help", Keywords: []string{"help", "support"}, Reply: HelpReply},
}

// Reply returns the canned answer for message and the name of the rule that
// produced it ("fallback" when nothing matched).
func Reply(message string) (string, string) {
	lower := strings.ToLower(message)
	for _, r := range Rules {
		if r.matches(lower) {
			return r.Reply, r.Name
		}
	}
	return FallbackReply, "fallback"
}
