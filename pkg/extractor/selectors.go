package extractor

// Selector chains are tried in order; the first element found wins.
// Structured data (schema.org microdata) comes before naming conventions.

var (
	companyNameSelectors = []string{
		`[itemtype*="Organization"] [itemprop="name"]`,
		`.company-name`,
		`#company-name`,
		`.about-company h1`,
	}
	companyDescriptionSelectors = []string{
		`[itemtype*="Organization"] [itemprop="description"]`,
		`.company-description`,
		`.about-company p`,
	}
	companyWebsiteSelectors = []string{
		`[itemtype*="Organization"] [itemprop="url"]`,
		`.company-website`,
	}
	companyEmailSelectors = []string{
		`[itemtype*="Organization"] [itemprop="email"]`,
		`.contact-email`,
	}
	companyPhoneSelectors = []string{
		`[itemtype*="Organization"] [itemprop="telephone"]`,
		`.contact-phone`,
	}
	companyAddressSelectors = []string{
		`[itemtype*="Organization"] [itemprop="address"]`,
		`.company-address`,
	}

	productNameSelectors = []string{
		`[itemtype*="Product"] [itemprop="name"]`,
		`.product-name`,
		`.product-title`,
	}
	productDescriptionSelectors = []string{
		`[itemtype*="Product"] [itemprop="description"]`,
		`.product-description`,
	}
	productPriceSelectors = []string{
		`[itemtype*="Product"] [itemprop="price"]`,
		`.product-price`,
	}
	productFeaturesSelector = `.product-features li, .features li`

	// mainContentSelectors is the fallback chain for the main text region.
	// body is the last resort and is handled separately.
	mainContentSelectors = []string{"main", "article", ".content"}

	// boilerplateSelector matches elements dropped from the main text.
	boilerplateSelector = `script, style, noscript, template, nav, footer, header, aside, .ads, .comments`
)
