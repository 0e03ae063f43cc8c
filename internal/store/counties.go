package store

// Counties is the fixed list of Oregon counties offered by the
// store-search filter form.
var Counties = []string{
	"Baker",
	"Benton",
	"Clackamas",
	"Clatsop",
	"Columbia",
	"Coos",
	"Crook",
	"Curry",
	"Deschutes",
	"Douglas",
	"Gilliam",
	"Grant",
	"Harney",
	"Hood River",
	"Jackson",
	"Jefferson",
	"Josephine",
	"Klamath",
	"Lake",
	"Lane",
	"Lincoln",
	"Linn",
	"Malheur",
	"Marion",
	"Morrow",
	"Multnomah",
	"Polk",
	"Sherman",
	"Tillamook",
	"Umatilla",
	"Union",
	"Wallowa",
	"Wasco",
	"Washington",
	"Wheeler",
	"Yamhill",
}
