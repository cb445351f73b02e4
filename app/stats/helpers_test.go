package stats_test

import (
	"fmt"
	"strings"
)

func basicLine(name, team, pos string, gp, goals, assists int) string {
	return fmt.Sprintf("%s,%s,%s,%d,%d,%d,%d,4,20,150,3,5,10,0,1,120,90", name, team, pos, gp, goals, assists, goals+assists)
}

func advancedLine(rank int, name string, age int, gp, corsiFor int) string {
	return fmt.Sprintf(`%d,%s,%d,EDM,C,%d,%d,1000,54.5,2.1,900,800,52.9,1.5,10.2,91.5,101.7,60.1,39.9,15.3,1050:32,40,35,12,450,55.0`,
		rank, name, age, gp, corsiFor)
}

func csvFile(header string, lines ...string) *strings.Reader {
	return strings.NewReader(header + "\n" + strings.Join(lines, "\n") + "\n")
}

const (
	basicHeader    = "player_name,team,position,games_played,goals,assists,pts,plus_minus,penalty_mins,shots_on_goal,game_winning_goals,power_play_goals,power_play_assists,short_handed_goals,short_handed_assists,hits,blocked_shots"
	advancedHeader = "Rk,Player,Age,Tm,Pos,GP,CF,CA,CF%,CF% rel,FF,FA,FF%,FF% rel,oiSH%,oiSV%,PDO,oZS%,dZS%,TOI/60,TOI(EV),TK,GV,E+/-,SAtt.,Thru%"
)

func itoa(i int) string { return fmt.Sprint(i) }
