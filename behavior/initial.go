package behavior

// InitialStrategy kicks the agent off: it perceives the start cell, announces
// the agent to its peers and adopts the world-clearing goal.
func InitialStrategy() Strategy {
	return Strategy{
		Name:     "initial",
		Relevant: relevantTo(KindStartup),
		Instantiate: func(t Trigger, _ Agent) Instantiation {
			return &initialInstantiation{trigger: t}
		},
	}
}

type initialInstantiation struct {
	Lifecycle
	trigger Trigger
}

func (i *initialInstantiation) ExecuteNextStep(a Agent) bool {
	i.Begin()
	a.Perceive()
	a.AnnounceSelf()
	a.AdoptGoal(ClearWorldGoal{})
	i.Finish()
	return true
}

func (i *initialInstantiation) Trigger() Trigger { return i.trigger }

func (i *initialInstantiation) Describe() string {
	return "initial perception and announcement, then adopt the clear world goal"
}
