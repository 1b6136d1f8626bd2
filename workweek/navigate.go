package workweek

// =============================================================================
// WEEK NAVIGATION - Stepping and payment offsets
// =============================================================================

// WeekRef is a (week, work-year) coordinate without resolved dates.
type WeekRef struct {
	Week int `json:"week"`
	Year int `json:"year"`
}

// AddWeeks steps n weeks forward (or backward for negative n), rolling year
// boundaries using the 52/53-week count of each year crossed.
func (c *Calendar) AddWeeks(week, year, n int) (WeekRef, error) {
	total, err := c.WeeksInYear(year)
	if err != nil {
		return WeekRef{}, err
	}
	if week < 1 || week > total {
		return WeekRef{}, &WeekNumberError{Week: week, Year: year, Max: total}
	}

	week += n
	for week > total {
		week -= total
		year++
		if total, err = c.WeeksInYear(year); err != nil {
			return WeekRef{}, err
		}
	}
	for week < 1 {
		year--
		prev, err := c.WeeksInYear(year)
		if err != nil {
			return WeekRef{}, err
		}
		week += prev
	}
	return WeekRef{Week: week, Year: year}, nil
}

// NextWeek steps forward one week.
func (c *Calendar) NextWeek(week, year int) (WeekRef, error) {
	return c.AddWeeks(week, year, 1)
}

// PreviousWeek steps back n weeks.
func (c *Calendar) PreviousWeek(week, year, n int) (WeekRef, error) {
	return c.AddWeeks(week, year, -n)
}

// StandardPaymentWeek returns the week in which standard pay for the given
// work week actually lands (work week + 2).
func (c *Calendar) StandardPaymentWeek(week, year int) (WeekRef, error) {
	return c.AddWeeks(week, year, 2)
}

// BonusPaymentWeek returns the week in which the performance bonus for the
// given work week lands (work week + 6).
func (c *Calendar) BonusPaymentWeek(week, year int) (WeekRef, error) {
	return c.AddWeeks(week, year, 6)
}
