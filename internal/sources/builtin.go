package sources

import "github.com/maxaizer/job-alert-bot/internal/entities"

const (
	FreelancerSourceID entities.SourceID = "freelancer"
	GuruSourceID       entities.SourceID = "guru"
)

// BuiltinSites are the page scrapers available without configuration.
func BuiltinSites() []SiteRules {
	return []SiteRules{
		{
			ID:                  FreelancerSourceID,
			URL:                 "https://www.freelancer.com/jobs/software-development",
			Origin:              "https://www.freelancer.com",
			ItemSelector:        "div.JobSearchCard-item",
			TitleSelector:       "a.JobSearchCard-primary-heading-link",
			DescriptionSelector: "p.JobSearchCard-primary-description",
		},
		{
			ID:                  GuruSourceID,
			URL:                 "https://www.guru.com/d/jobs/c/programming-development/",
			Origin:              "https://www.guru.com",
			ItemSelector:        "div.jobRecord",
			TitleSelector:       "h2.jobRecord__title a",
			DescriptionSelector: "p.jobRecord__desc",
		},
	}
}
