package gaussop_test

import (
	"fmt"

	"github.com/katalvlaran/lvprop/distrib"
	"github.com/katalvlaran/lvprop/gaussop"
)

// A known precision shrinks the mean belief toward the uniform message:
// both natural parameters scale by precision/(precision+meanPrecision).
func ExampleSampleMessage() {
	mean := distrib.GaussianFromMeanAndPrecision(2, 4)
	msg, err := gaussop.SampleMessage(mean, 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	m, v := msg.GetMeanAndVariance()
	fmt.Printf("mean %.2f variance %.2f\n", m, v)
	// Output:
	// mean 2.00 variance 1.25
}

func ExampleLogAverageFactor() {
	// The density of a standard Normal at its mean: -log sqrt(2*pi).
	fmt.Printf("%.4f\n", gaussop.LogAverageFactor(0, 0, 1))
	// Output:
	// -0.9189
}
