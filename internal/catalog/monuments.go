package catalog

import "github.com/yatralens/backend/internal/domain"

// defaultMonuments keywords are lowercase and chosen to overlap with common
// ImageNet-style classifier labels (palace, mosque, castle, dome, ...).
var defaultMonuments = []domain.Monument{
	{
		Key:          "taj mahal",
		Name:         "Taj Mahal",
		Location:     "Agra, Uttar Pradesh",
		BuiltBy:      "Shah Jahan",
		BuiltIn:      "1632-1653",
		Description:  "White marble mausoleum on the south bank of the Yamuna river.",
		Significance: "UNESCO World Heritage Site and one of the New Seven Wonders of the World.",
		Tags:         []string{"mughal", "mausoleum", "unesco"},
		Keywords:     []string{"taj mahal", "taj", "mausoleum", "dome", "mosque", "palace", "agra", "marble"},
	},
	{
		Key:          "red fort",
		Name:         "Red Fort",
		Location:     "Delhi",
		BuiltBy:      "Shah Jahan",
		BuiltIn:      "1639-1648",
		Description:  "Red sandstone fortified palace that served as the main residence of the Mughal emperors.",
		Significance: "Site of the Prime Minister's Independence Day address every year.",
		Tags:         []string{"mughal", "fort", "unesco"},
		Keywords:     []string{"red fort", "delhi", "fort", "castle", "fortress", "palace"},
	},
	{
		Key:          "qutub minar",
		Name:         "Qutub Minar",
		Location:     "Mehrauli, Delhi",
		BuiltBy:      "Qutb ud-Din Aibak",
		BuiltIn:      "1199-1220",
		Description:  "73 metre fluted minaret of red sandstone and marble.",
		Significance: "Tallest brick minaret in the world.",
		Tags:         []string{"sultanate", "minaret", "unesco"},
		Keywords:     []string{"qutub minar", "minar", "minaret", "tower", "obelisk", "pillar"},
	},
	{
		Key:          "india gate",
		Name:         "India Gate",
		Location:     "New Delhi",
		BuiltBy:      "Edwin Lutyens",
		BuiltIn:      "1921-1931",
		Description:  "War memorial arch on the Kartavya Path.",
		Significance: "Commemorates soldiers of the British Indian Army who died in the First World War.",
		Tags:         []string{"memorial", "arch"},
		Keywords:     []string{"india gate", "triumphal arch", "arch", "memorial", "gate"},
	},
	{
		Key:          "gateway of india",
		Name:         "Gateway of India",
		Location:     "Mumbai, Maharashtra",
		BuiltBy:      "George Wittet",
		BuiltIn:      "1913-1924",
		Description:  "Basalt arch monument on the Apollo Bunder waterfront.",
		Significance: "Erected to commemorate the landing of King George V and Queen Mary.",
		Tags:         []string{"colonial", "arch", "waterfront"},
		Keywords:     []string{"gateway of india", "gateway", "mumbai", "arch", "pier", "dock"},
	},
	{
		Key:          "hawa mahal",
		Name:         "Hawa Mahal",
		Location:     "Jaipur, Rajasthan",
		BuiltBy:      "Maharaja Sawai Pratap Singh",
		BuiltIn:      "1799",
		Description:  "Pink sandstone palace with 953 small latticed windows.",
		Significance: "Let royal women observe street festivals unseen.",
		Tags:         []string{"rajput", "palace"},
		Keywords:     []string{"hawa mahal", "jaipur", "palace", "window screen", "honeycomb"},
	},
	{
		Key:          "charminar",
		Name:         "Charminar",
		Location:     "Hyderabad, Telangana",
		BuiltBy:      "Muhammad Quli Qutb Shah",
		BuiltIn:      "1591",
		Description:  "Square monument with four ornate minarets at its corners.",
		Significance: "Global icon of Hyderabad.",
		Tags:         []string{"qutb shahi", "mosque", "minaret"},
		Keywords:     []string{"charminar", "hyderabad", "minaret", "mosque", "tower"},
	},
	{
		Key:          "lotus temple",
		Name:         "Lotus Temple",
		Location:     "New Delhi",
		BuiltBy:      "Fariborz Sahba",
		BuiltIn:      "1986",
		Description:  "Bahá'í House of Worship shaped like a lotus flower with 27 marble petals.",
		Significance: "Open to people of all faiths.",
		Tags:         []string{"modern", "temple"},
		Keywords:     []string{"lotus temple", "lotus", "temple", "dome", "planetarium"},
	},
	{
		Key:          "golden temple",
		Name:         "Golden Temple",
		Location:     "Amritsar, Punjab",
		BuiltBy:      "Guru Arjan",
		BuiltIn:      "1581-1604",
		Description:  "Gurdwara plated in gold, standing in the Amrit Sarovar pool.",
		Significance: "Holiest gurdwara of Sikhism.",
		Tags:         []string{"sikh", "temple"},
		Keywords:     []string{"golden temple", "harmandir sahib", "amritsar", "temple", "stupa", "boathouse"},
	},
}
