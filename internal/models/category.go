package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Category groups modules sharing a code prefix for display.
type Category struct {
	Prefix string
	Name   string
	Color  string
}

// OtherCategory is the fallback for codes matching no known prefix.
var OtherCategory = Category{Name: "Other", Color: "FFFFFF"}

// Categories is the ordered prefix table; resolution is first-match-wins, so
// the slice order is the resolution order should overlapping prefixes ever
// be added.
var Categories = []Category{
	{Prefix: "G-AIA", Name: "AI & Machine Learning", Color: "C6EFCE"},
	{Prefix: "G-SEC", Name: "Security", Color: "F8CBAD"},
	{Prefix: "G-OOP", Name: "Object-Oriented Programming", Color: "BDD7EE"},
	{Prefix: "G-NWP", Name: "Network Programming", Color: "FFE699"},
	{Prefix: "G-CCP", Name: "Concurrent Programming", Color: "E2EFDA"},
	{Prefix: "G-DOP", Name: "DevOps", Color: "D9E1F2"},
	{Prefix: "G-CNA", Name: "Computer Numerical Analysis", Color: "FCE4D6"},
	{Prefix: "G-ING", Name: "Engineering", Color: "DDEBF7"},
	{Prefix: "G-PMP", Name: "Project Management", Color: "FFF2CC"},
	{Prefix: "G-PRO", Name: "Professional", Color: "E2F0D9"},
	{Prefix: "G-ENG", Name: "English", Color: "F2F2F2"},
	{Prefix: "G-YEP", Name: "Year-End Project", Color: "FF9999"},
	{Prefix: "G-INN", Name: "Innovation", Color: "DDA0DD"},
	{Prefix: "G-CUS", Name: "Customer/UX", Color: "FFFACD"},
	{Prefix: "G-EPI", Name: "Epitech Life", Color: "D3D3D3"},
	{Prefix: "G-PDG", Name: "Paradigms", Color: "B0E0E6"},
}

// CategoryFor resolves the category for a module code; unknown or malformed
// codes fall back to OtherCategory.
func CategoryFor(code string) Category {
	for _, c := range Categories {
		if strings.HasPrefix(code, c.Prefix) {
			return c
		}
	}
	return OtherCategory
}

// Palette holds the pastel timeline colors handed out round-robin to regular
// modules in final sort order.
var Palette = []string{
	"A8D5BA", // sage green
	"B5D8EB", // sky blue
	"F7DC6F", // soft yellow
	"F1948A", // coral red
	"D7BDE2", // lavender
	"A9CCE3", // powder blue
	"F5CBA7", // peach
	"A3E4D7", // pale turquoise
	"FAD7A0", // apricot
	"D5DBDB", // pearl gray
	"ABEBC6", // mint
	"F9E79F", // pale yellow
	"D2B4DE", // pale purple
	"AED6F1", // baby blue
	"F5B7B1", // dusty pink
	"A9DFBF", // sea green
	"FADBD8", // salmon pink
	"D4E6F1", // glacier blue
	"FCF3CF", // cream
	"E8DAEF", // lilac
}

// BonusColor fills bonus module rows; they never consume palette colors.
const BonusColor = "E1BEE7"

// LightenColor blends a hex color toward white. Factor 0 returns the input
// unchanged, factor 1 returns pure white.
func LightenColor(hex string, factor float64) string {
	if len(hex) != 6 {
		return hex
	}
	r := lightenChannel(hex[0:2], factor)
	g := lightenChannel(hex[2:4], factor)
	b := lightenChannel(hex[4:6], factor)
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

func lightenChannel(hexByte string, factor float64) int {
	v, err := strconv.ParseInt(hexByte, 16, 32)
	if err != nil {
		return 0
	}
	return int(float64(v) + (255-float64(v))*factor)
}
