package handlers

// Resource describes one domain record collection: where it lives, what the
// search parameter matches against, which payload field must be unique, and
// how its PDF document is rendered.
type Resource struct {
	Name         string // route segment under /api
	Title        string // document heading, also used in notification mail
	Table        string
	Template     string
	SearchFields []string
	Required     []string
	UniqueKey    string // payload field with a uniqueness constraint, "" if none
}

func Resources() []Resource {
	return []Resource{
		{
			Name:         "customers",
			Title:        "Customer Record",
			Table:        "customers",
			Template:     "customer.html",
			SearchFields: []string{"customerName", "siteAddress", "contactName", "contactEmail"},
			Required:     []string{"customerName"},
			UniqueKey:    "customerName",
		},
		{
			Name:         "work-orders",
			Title:        "Work Order",
			Table:        "work_orders",
			Template:     "work_order.html",
			SearchFields: []string{"jobNumber", "customerName", "siteAddress", "description"},
			Required:     []string{"jobNumber", "customerName"},
			UniqueKey:    "jobNumber",
		},
		{
			Name:         "service-tickets",
			Title:        "Service Ticket",
			Table:        "service_tickets",
			Template:     "service_ticket.html",
			SearchFields: []string{"customerName", "siteAddress", "technicianName", "workPerformed"},
			Required:     []string{"customerName", "serviceDate"},
		},
		{
			Name:         "aboveground-tests",
			Title:        "Above-Ground Sprinkler Test",
			Table:        "aboveground_tests",
			Template:     "aboveground_test.html",
			SearchFields: []string{"propertyName", "propertyAddress", "inspectorName"},
			Required:     []string{"propertyName", "testDate"},
		},
		{
			// The source system never defined a schema for these
			// certificates, so the payload is free-form and only
			// propertyName is required.
			Name:         "underground-tests",
			Title:        "Underground Piping Test",
			Table:        "underground_tests",
			Template:     "underground_test.html",
			SearchFields: []string{"propertyName", "propertyAddress", "inspectorName"},
			Required:     []string{"propertyName"},
		},
		{
			Name:         "alarms",
			Title:        "Alarm Monitoring Record",
			Table:        "alarms",
			Template:     "alarm.html",
			SearchFields: []string{"accountNumber", "customerName", "siteAddress", "monitoringCompany"},
			Required:     []string{"accountNumber", "customerName"},
			UniqueKey:    "accountNumber",
		},
	}
}
