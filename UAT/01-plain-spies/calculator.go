package plain

// Calculator demonstrates plain spies: methods whose results are available
// as soon as they are called.
type Calculator interface {
	// Add demonstrates a method with parameters and a single result.
	Add(a, b int) int

	// Store demonstrates multiple results.
	Store(key string, value any) (int, error)

	// Log demonstrates a method without results.
	Log(message string)

	// Notify demonstrates variadic arguments.
	Notify(message string, ids ...int) bool
}

// Total adds up values with calc, logging and storing the result.
func Total(calc Calculator, values ...int) (int, error) {
	sum := 0
	for _, value := range values {
		sum = calc.Add(sum, value)
	}

	calc.Log("total computed")

	_, err := calc.Store("total", sum)
	if err != nil {
		return 0, err
	}

	calc.Notify("done", values...)

	return sum, nil
}
