package models

// Option is one entry of a dropdown: the submitted value and the text shown for it.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options is an ordered dropdown option list.
type Options []Option

// Label returns the label for value and whether an option matched.
func (o Options) Label(value string) (string, bool) {
	for _, opt := range o {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

var ContentTypeOptions = Options{
	{Value: AnyValue, Label: "Movies or Web Series"},
	{Value: "movies", Label: "Movies"},
	{Value: "web series", Label: "Web Series"},
}

// GenreOptions lists the genre dropdown. The "any" sentinel comes first.
var GenreOptions = Options{
	{Value: AnyValue, Label: "Any Genre"},
	{Value: "action", Label: "Action"},
	{Value: "adventure", Label: "Adventure"},
	{Value: "animation", Label: "Animation"},
	{Value: "biography", Label: "Biography"},
	{Value: "comedy", Label: "Comedy"},
	{Value: "crime", Label: "Crime"},
	{Value: "documentary", Label: "Documentary"},
	{Value: "drama", Label: "Drama"},
	{Value: "family", Label: "Family"},
	{Value: "fantasy", Label: "Fantasy"},
	{Value: "horror", Label: "Horror"},
	{Value: "mystery", Label: "Mystery"},
	{Value: "romance", Label: "Romance"},
	{Value: "sci-fi", Label: "Sci-Fi"},
	{Value: "thriller", Label: "Thriller"},
	{Value: "war", Label: "War"},
}

var LanguageOptions = Options{
	{Value: AnyValue, Label: "Any Language"},
	{Value: "english", Label: "English"},
	{Value: "hindi", Label: "Hindi"},
	{Value: "korean", Label: "Korean"},
	{Value: "japanese", Label: "Japanese"},
	{Value: "spanish", Label: "Spanish"},
	{Value: "french", Label: "French"},
	{Value: "tamil", Label: "Tamil"},
	{Value: "telugu", Label: "Telugu"},
	{Value: "malayalam", Label: "Malayalam"},
}

var OTTPlatformOptions = Options{
	{Value: AnyValue, Label: "Any Platform"},
	{Value: "netflix", Label: "Netflix"},
	{Value: "prime video", Label: "Prime Video"},
	{Value: "disney+ hotstar", Label: "Disney+ Hotstar"},
	{Value: "hbo max", Label: "HBO Max"},
	{Value: "apple tv+", Label: "Apple TV+"},
	{Value: "sonyliv", Label: "SonyLIV"},
	{Value: "zee5", Label: "ZEE5"},
}

var CountryOptions = Options{
	{Value: AnyValue, Label: "Any Country"},
	{Value: "usa", Label: "USA"},
	{Value: "uk", Label: "UK"},
	{Value: "india", Label: "India"},
	{Value: "south korea", Label: "South Korea"},
	{Value: "japan", Label: "Japan"},
	{Value: "france", Label: "France"},
	{Value: "spain", Label: "Spain"},
}

var FormatOptions = Options{
	{Value: AnyValue, Label: "Any Format"},
	{Value: "live action", Label: "Live Action"},
	{Value: "animated", Label: "Animated"},
}
