package gauge

func rec(date string, rating Rating, tech string) Record {
	return Record{
		FieldResponseDate: date,
		FieldRating:       string(rating),
		FieldTechnician:   tech,
		FieldCompany:      "Acme " + tech,
	}
}

func repeat(n int, date string, rating Rating, tech string) []Record {
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rec(date, rating, tech))
	}
	return out
}
