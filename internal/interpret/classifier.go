package interpret

import (
	"regexp"
	"strings"
)

// polarSKUPattern matches a PolarDB node SKU such as polar.mysql.x4.medium.
var polarSKUPattern = regexp.MustCompile(`polar\.(mysql|pg|o)\.x\d+\.(small|medium|large|xlarge|2xlarge|4xlarge|8xlarge|12xlarge|16xlarge)`)

var polarNameKeywords = []string{"polardb", "polar db", "云原生数据库"}

// IsPolarDBRecord reports whether the text describes a PolarDB product.
// A node SKU in the text decides on its own; a product-name keyword alone
// does not, since plain ECS rows often mention the databases they will host.
func IsPolarDBRecord(productName, description string) bool {
	text := strings.ToLower(productName + " " + description)
	return polarSKUPattern.MatchString(text)
}

// MentionsPolarDB reports whether the text names PolarDB at all, SKU or
// not. Used only to pick the interpretation prompt.
func MentionsPolarDB(productName, description string) bool {
	text := strings.ToLower(productName + " " + description)
	if polarSKUPattern.MatchString(text) {
		return true
	}
	for _, kw := range polarNameKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
