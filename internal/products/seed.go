package product

// SeedSlugs are the slugs of the fallback catalog shipped before the first sync.
var SeedSlugs = []string{
	"baerbar-skjerm-14",
	"baerbar-skjerm-16",
	"dobbelt-skjermsett",
	"trippel-skjermsett",
	"usb-c-dokkingstasjon",
	"hdmi-kabel-2-m",
	"magnetstativ",
	"baereetui",
}

type seedProduct struct {
	Name        string
	Description string
	PriceCents  int64
	IsFeatured  bool
}

var seedProducts = []seedProduct{
	{Name: "Bærbar skjerm 14\"", Description: "Ekstra skjerm som pakkes flatt og kobles til med USB-C.", PriceCents: 299900, IsFeatured: true},
	{Name: "Bærbar skjerm 16\"", Description: "Stor arbeidsflate for kreative oppgaver og multitasking.", PriceCents: 349900, IsFeatured: true},
	{Name: "Dobbelt skjermsett", Description: "To skjermer som festes rundt laptopen for ekstra arbeidsflate.", PriceCents: 449000, IsFeatured: true},
	{Name: "Trippel skjermsett", Description: "Jobb på tre skjermer samtidig med fleksibel montering.", PriceCents: 499000},
	{Name: "USB-C dokkingstasjon", Description: "Koble til skjerm, nettverk og lading med en dokkingstasjon.", PriceCents: 129900},
	{Name: "HDMI-kabel 2 m", Description: "Solid kabel til ekstra skjermer og docking.", PriceCents: 24900},
	{Name: "Magnetstativ", Description: "Stabilt stativ for bærbare skjermer og oppsett på farten.", PriceCents: 59900},
	{Name: "Bæreetui", Description: "Beskyttende etui for sikker transport av skjerm.", PriceCents: 39900},
}
