package core

// Evaluation summarizes classifier quality against a labeled table.
// Precision, recall, and F1 are support-weighted averages over the observed
// classes, matching the weighted multiclass scores the selector ranks on.
type Evaluation struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

func Evaluate(yTrue, yPred []int) Evaluation {
	if len(yTrue) == 0 {
		return Evaluation{}
	}

	classes := map[int]struct{}{}
	for _, c := range yTrue {
		classes[c] = struct{}{}
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	total := float64(len(yTrue))
	eval := Evaluation{Accuracy: float64(correct) / total}

	for class := range classes {
		tp, fp, fn, support := 0, 0, 0, 0
		for i := range yTrue {
			if yTrue[i] == class {
				support++
				if yPred[i] == class {
					tp++
				} else {
					fn++
				}
			} else if yPred[i] == class {
				fp++
			}
		}

		var precision, recall, f1 float64
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		weight := float64(support) / total
		eval.Precision += weight * precision
		eval.Recall += weight * recall
		eval.F1 += weight * f1
	}

	return eval
}

// Map flattens an evaluation for the registry's JSON metrics column.
func (e Evaluation) Map() map[string]float64 {
	return map[string]float64{
		"accuracy":  e.Accuracy,
		"precision": e.Precision,
		"recall":    e.Recall,
		"f1":        e.F1,
	}
}
