package commands

import (
	"math/rand/v2"
	"strings"
)

var slapObjects = []string{
	"a large trout", "a wet noodle", "a rotten tomato", "a rubber chicken", "a brick",
	"a baseball bat", "a pillow", "a slice of pizza", "a keyboard", "a bouquet of flowers",
	"a cream pie", "a bag of popcorn", "a fish", "a snowball", "a hockey stick",
	"a banana", "a bucket of water", "a book", "a feather duster", "a paper airplane",
	"a rubber duck", "a can of soda", "a cactus", "a rolled-up newspaper", "a bunch of grapes",
	"a giant lollipop", "a toy lightsaber", "a baguette", "a toy hammer", "a giant gummy worm",
	"a toy snake", "a giant marshmallow", "a rolled-up yoga mat", "a foam dart", "a bag of flour",
	"a bucket of ice", "a rotten apple", "a wet sponge", "a bag of marbles", "a balloon filled with water",
	"a frying pan", "a giant teddy bear", "a whipped cream can", "a bag of feathers", "a rolled-up poster",
	"a bookshelf", "a bucket of confetti", "a bunch of roses", "a giant candy cane", "a bucket of slime",
	"a pillow filled with rocks", "a foam finger", "a bag of chips", "a giant inflatable hammer", "a toy sword",
}

var engageTemplates = []string{
	"{sender} tickles {receiver} with a live octopus tentacle",
	"{sender} kisses {receiver} on the nose with a rubber chicken",
	"{sender} feeds {receiver} a slice of pizza through a megaphone",
	"{sender} serenades {receiver} with a kazoo solo",
	"{sender} paints {receiver}'s face with rainbow-colored mustard",
	"{sender} hypnotizes {receiver} with a toy yo-yo",
	"{sender} juggles {receiver}'s shoes while reciting the alphabet backwards",
	"{sender} tickles {receiver}'s ears with a feather duster",
	"{sender} balances a cupcake on {receiver}'s nose with chopsticks",
	"{sender} rides {receiver} like a horse while singing a lullaby",
	"{sender} dances the tango with {receiver} using a broomstick",
	"{sender} casts a spell on {receiver} with a glitter-filled wand",
	"{sender} plays the harmonica while {receiver} belly dances",
	"{sender} whispers secrets to {receiver} in gibberish",
	"{sender} gives {receiver} a piggyback ride while wearing a tutu",
	"{sender} recites Shakespeare while {receiver} juggles eggs",
	"{sender} performs a magic trick that turns {receiver} into a balloon animal",
	"{sender} makes {receiver} wear a lobster hat and sing karaoke",
	"{sender} plays hopscotch with {receiver} on a pile of bubble wrap",
	"{sender} makes {receiver} wear a chicken suit and cluck like a hen",
	"{sender} gives {receiver} a bubble bath with green Jell-O",
	"{sender} jumps out of a cake and surprises {receiver} with a ukulele",
	"{sender} reads {receiver} a bedtime story in a Donald Duck voice",
	"{sender} makes {receiver} wear a Viking helmet and do the Macarena",
	"{sender} gives {receiver} a bear hug while wearing a Pikachu costume",
	"{sender} feeds {receiver} spaghetti with their toes",
	"{sender} plays a game of tag with {receiver} using a water gun",
	"{sender} teaches {receiver} how to hula hoop",
	"{sender} wears a silly hat and dances the cha-cha with {receiver}",
	"{sender} puts on a puppet show for {receiver} using socks as puppets",
	"{sender} has a staring contest with {receiver} while balancing an apple on their head",
	"{sender} gives {receiver} a guided tour of a haunted house",
	"{sender} sings a song in a made-up language with {receiver} as backup singer",
	"{sender} performs a comedy skit with {receiver} as the straight man",
	"{sender} gives {receiver} a foot massage with a rubber chicken",
	"{sender} teaches {receiver} how to solve a Rubik's cube",
	"{sender} has a water balloon fight with {receiver} while wearing swim goggles",
	"{sender} performs a skit where {receiver} is the superhero and {sender} is the villain",
	"{sender} has a thumb wrestling competition with {receiver}",
	"{sender} gives {receiver} a guided tour of a candy factory",
	"{sender} performs a rap with {receiver} as the DJ",
	"{sender} has a thumb war competition with {receiver} using chopsticks",
}

// pick returns a random index in [0, n).
type pick func(n int) int

func defaultPick(n int) int {
	return rand.IntN(n)
}

func randomSlap(p pick, sender, receiver string) string {
	return sender + " slaps " + receiver + " with " + slapObjects[p(len(slapObjects))]
}

func randomEngage(p pick, sender, receiver string) string {
	tmpl := engageTemplates[p(len(engageTemplates))]
	return strings.NewReplacer("{sender}", sender, "{receiver}", receiver).Replace(tmpl)
}
