package sitedata

// DefaultSections holds the seed content for the marketing site. The
// initialize endpoint upserts each of these, overwriting whatever a
// section currently holds.
var DefaultSections = map[string]Document{
	SectionHero: Document(`{
		"title": "World-Class Technology Solutions",
		"subtitle": "Treyfa-Tech & Integrated Services Ltd",
		"description": "Empowering businesses in Nigeria and beyond with cutting-edge software development, IT consulting, and integrated technology services."
	}`),
	SectionHeader: Document(`{
		"companyName": "TREYFA-TECH",
		"logo": "",
		"navigation": [
			{"label": "Home", "link": "/"},
			{"label": "About", "link": "#about"},
			{"label": "Services", "link": "#services"},
			{"label": "Portfolio", "link": "/portfolio"},
			{"label": "Contact", "link": "#contact"}
		]
	}`),
	SectionFooter: Document(`{
		"companyName": "TREYFA-TECH",
		"tagline": "& INTEGRATED SERVICES LTD",
		"description": "Empowering businesses with world-class technology solutions across Nigeria and beyond.",
		"socialLinks": [
			{"platform": "Facebook", "url": "#"},
			{"platform": "Twitter", "url": "#"},
			{"platform": "LinkedIn", "url": "#"},
			{"platform": "Instagram", "url": "#"},
			{"platform": "YouTube", "url": "#"}
		],
		"quickLinks": ["Home", "Services", "About Us", "Contact"],
		"services": [
			"Software Development",
			"IT Training & Consultancy",
			"Business Process Outsourcing",
			"Hardware & IoT Solutions",
			"Data Management"
		],
		"copyright": "© 2024 Treyfa-Tech & Integrated Services Ltd. All rights reserved."
	}`),
	SectionAbout: Document(`{
		"title": "About Treyfa-Tech",
		"description": "Treyfa-Tech & Integrated Services Ltd is a leading technology company dedicated to providing comprehensive IT solutions that drive business growth and digital transformation. Based in Nigeria, we serve clients across Africa and beyond.",
		"mission": "To empower businesses with innovative technology solutions that enhance productivity, drive growth, and create sustainable competitive advantages in the digital economy.",
		"vision": "To be the leading technology partner for businesses across Africa, driving digital transformation and innovation through world-class solutions and exceptional service delivery."
	}`),
	SectionContact: Document(`{
		"email": "info@Treyfa-tech.com",
		"phone": "+234 (0) 123 456 7890",
		"address": "Shop No.5 EPP Plaza Sangere FUTY Opposite MAU Main Gate Ground Floor Adamawa State Girei",
		"businessHours": "Monday - Friday: 8:00 AM - 6:00 PM, Saturday: 9:00 AM - 2:00 PM"
	}`),
}
