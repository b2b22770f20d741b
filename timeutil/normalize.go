package timeutil

// Normalize rewrites t in place so that every component is within
// its calendar range. Overflowing components carry into the next
// more significant one and negative components borrow from it:
//
//   - nanoseconds, seconds, minutes and hours carry using fixed
//     bases, so hour 24 becomes hour 0 of the following day;
//   - months outside 1..12 adjust the year;
//   - days beyond the end of the month move into following months,
//     which resolves the day-of-year form [Y, 1, doy, ...];
//   - days below 1 borrow the length of the preceding months.
//
// Normalize is idempotent. It fails only when the year leaves the
// MinLeapYear..MaxLeapYear window while month lengths are needed;
// t is left partially normalized in that case.
func Normalize(t *Time) error {
	carry(t, Nanosecond, nanosPerSecond)
	carry(t, Second, 60)
	carry(t, Minute, 60)
	carry(t, Hour, 24)

	m := t[Month] - 1
	years := FloorDiv(m, 12)
	t[Year] += years
	t[Month] = m - years*12 + 1

	for t[Day] < 1 {
		t[Month]--
		if t[Month] < 1 {
			t[Month] = 12
			t[Year]--
		}
		n, err := DaysInMonth(t[Year], t[Month])
		if err != nil {
			return err
		}
		t[Day] += n
	}

	for {
		n, err := DaysInMonth(t[Year], t[Month])
		if err != nil {
			return err
		}
		if t[Day] <= n {
			return nil
		}
		t[Day] -= n
		t[Month]++
		if t[Month] > 12 {
			t[Month] = 1
			t[Year]++
		}
	}
}

// carry moves whole multiples of base from component i into the next
// more significant component.
func carry(t *Time, i, base int) {
	c := FloorDiv(t[i], base)
	t[i] -= c * base
	t[i-1] += c
}
