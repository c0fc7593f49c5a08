package entity

import "fmt"

// Item is one scanned spec table, identified by category and slide number.
type Item struct {
	Category  string `json:"category"`
	Slide     int    `json:"slide"`
	Dir       string `json:"dir"`
	ImagePath string `json:"image_path"`
	SpecsPath string `json:"specs_path"`
}

// Label renders the item the way progress lines show it, e.g. "rugs/slide_003".
func (i Item) Label() string {
	return fmt.Sprintf("%s/slide_%03d", i.Category, i.Slide)
}
