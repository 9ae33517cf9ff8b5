package model

// PortfolioProject is one entry of the portfolio listing.
type PortfolioProject struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Image        string   `json:"image"`
	LiveURL      string   `json:"liveUrl"`
	GitHubURL    string   `json:"githubUrl"`
}

var projects = []PortfolioProject{
	{
		ID:           1,
		Title:        "E-commerce Website",
		Description:  "Website thương mại điện tử hoàn chỉnh với giỏ hàng và thanh toán online.",
		Technologies: []string{"React", "Node.js", "MongoDB", "Express"},
		Image:        "/images/project1.jpg",
		LiveURL:      "https://example-ecommerce.com",
		GitHubURL:    "https://github.com/example/ecommerce",
	},
	{
		ID:           2,
		Title:        "Restaurant Website",
		Description:  "Website nhà hàng với menu online và hệ thống đặt bàn.",
		Technologies: []string{"HTML/CSS", "JavaScript", "PHP", "MySQL"},
		Image:        "/images/project2.jpg",
		LiveURL:      "https://example-restaurant.com",
		GitHubURL:    "https://github.com/example/restaurant",
	},
	{
		ID:           3,
		Title:        "Portfolio Website",
		Description:  "Website portfolio cá nhân với thiết kế hiện đại và responsive.",
		Technologies: []string{"Vue.js", "Sass", "Firebase"},
		Image:        "/images/project3.jpg",
		LiveURL:      "https://example-portfolio.com",
		GitHubURL:    "https://github.com/example/portfolio",
	},
}

// Projects returns the fixed portfolio listing in display order. The
// result is a deep copy; callers may modify it freely.
func Projects() []PortfolioProject {
	out := make([]PortfolioProject, len(projects))
	for i, p := range projects {
		p.Technologies = append([]string(nil), p.Technologies...)
		out[i] = p
	}
	return out
}
