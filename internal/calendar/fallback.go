package calendar

func fb(name, iso, desc string, types ...string) Festival {
	d, _ := parseISO(iso)
	return Festival{Name: name, ISO: iso, Date: d, Types: types, Description: desc}
}

// fallbackFestivals is served when the provider returns nothing.
var fallbackFestivals = []Festival{
	fb("Republic Day", "2025-01-26T00:00:00", "India's Republic Day", "National holiday"),
	fb("Pongal", "2025-01-14T00:00:00", "Tamil harvest festival", "Local holiday", "Religious"),
	fb("Makar Sankranti", "2025-01-14T00:00:00", "Harvest festival", "Religious"),
	fb("Lohri", "2025-01-13T00:00:00", "Punjab harvest festival", "Religious"),
	fb("Holi", "2025-03-14T00:00:00", "Festival of Colors", "Religious"),
	fb("Ugadi", "2025-03-30T00:00:00", "Telugu/Kannada New Year", "Local holiday"),
	fb("Ram Navami", "2025-04-06T00:00:00", "Birth of Lord Rama", "Religious"),
	fb("Good Friday", "2025-04-18T00:00:00", "Christian observance", "Observance"),
	fb("Baisakhi", "2025-04-14T00:00:00", "Sikh New Year", "Local holiday"),
	fb("Independence Day", "2025-08-15T00:00:00", "India's Independence", "National holiday"),
	fb("Onam", "2025-09-05T00:00:00", "Kerala harvest festival", "Local holiday"),
	fb("Ganesh Chaturthi", "2025-09-07T00:00:00", "Birth of Lord Ganesha", "Religious"),
	fb("Dussehra", "2025-10-02T00:00:00", "Victory of good over evil", "Religious"),
	fb("Diwali", "2025-10-20T00:00:00", "Festival of Lights", "Religious"),
	fb("Guru Nanak Jayanti", "2025-11-15T00:00:00", "Birth of Guru Nanak", "Religious"),
	fb("Christmas", "2025-12-25T00:00:00", "Birth of Jesus", "Observance"),
	fb("Republic Day", "2026-01-26T00:00:00", "", "National holiday"),
	fb("Pongal", "2026-01-14T00:00:00", "", "Local holiday", "Religious"),
	fb("Diwali", "2026-11-08T00:00:00", "", "Religious"),
}
